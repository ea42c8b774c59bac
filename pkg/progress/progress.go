// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package progress reports the phases a deployment run goes through.
package progress

import (
	"sync"

	"github.com/luxfi/pxe-deploy/pkg/pxe"
)

type Phase int

const (
	Connected Phase = iota + 1
	IdentitiesResolved
	ArtifactLoaded
	Submitted
	Confirmed
	// Failed is emitted at most once, after the last successful phase.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Connected:
		return "connected"
	case IdentitiesResolved:
		return "identities-resolved"
	case ArtifactLoaded:
		return "artifact-loaded"
	case Submitted:
		return "submitted"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Event carries the data known at the time a phase is reached. Only the
// fields relevant to Phase are set.
type Event struct {
	Phase Phase

	Endpoint    string
	NodeVersion string

	Identities       int
	Deployer         pxe.Address
	DeployerComplete pxe.CompleteAddress

	Artifact string

	TxHash pxe.TxHash

	Address pxe.Address
	Block   uint64

	Err error
}

type Observer interface {
	OnPhase(Event)
}

// ObserverFunc adapts a plain function to an Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnPhase(e Event) {
	f(e)
}

type multi []Observer

// Multi fans events out to every non-nil observer, in order.
func Multi(observers ...Observer) Observer {
	m := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) OnPhase(e Event) {
	for _, o := range m {
		o.OnPhase(e)
	}
}

// Nop discards every event.
var Nop Observer = ObserverFunc(func(Event) {})

// Recorder keeps every event it observes. A nil *Recorder discards events.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnPhase(e Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	phases := make([]Phase, len(r.events))
	for i, e := range r.events {
		phases[i] = e.Phase
	}
	return phases
}
