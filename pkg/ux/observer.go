// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"sync"
	"time"

	"github.com/chelnak/ysmrr"
	"github.com/luxfi/pxe-deploy/pkg/progress"
)

const confirmationStep = "Waiting for confirmation"

// ConsoleObserver prints one line per deployment phase. On a terminal a
// spinner runs while the deployment waits for confirmation.
type ConsoleObserver struct {
	ul          *UserLog
	tracker     *StepTracker
	checkPeriod time.Duration

	mu       sync.Mutex
	waiting  bool
	stop     chan struct{}
	done     sync.WaitGroup
	spinners ysmrr.SpinnerManager
	spinner  *ysmrr.Spinner
}

func NewConsoleObserver(ul *UserLog, warnAfter time.Duration) *ConsoleObserver {
	return &ConsoleObserver{
		ul:          ul,
		tracker:     NewStepTracker(ul, warnAfter),
		checkPeriod: time.Second,
	}
}

func (o *ConsoleObserver) OnPhase(e progress.Event) {
	switch e.Phase {
	case progress.Connected:
		if e.NodeVersion != "" {
			o.ul.GreenCheckmarkToUser("Connected to PXE at %s (node %s)", e.Endpoint, e.NodeVersion)
		} else {
			o.ul.GreenCheckmarkToUser("Connected to PXE at %s", e.Endpoint)
		}
	case progress.IdentitiesResolved:
		o.ul.GreenCheckmarkToUser("Resolved %d identities, deployer %s", e.Identities, e.Deployer)
		o.ul.PrintToUser("  complete address: %s", e.DeployerComplete)
	case progress.ArtifactLoaded:
		o.ul.GreenCheckmarkToUser("Loaded contract artifact %s", e.Artifact)
	case progress.Submitted:
		o.ul.GreenCheckmarkToUser("Submitted deployment of %s (txHash=%s)", e.Artifact, e.TxHash)
		o.startWaiting()
	case progress.Confirmed:
		if o.stopWaiting(true) {
			o.tracker.Complete("block " + ConvertToStringWithThousandSeparator(e.Block))
		}
		o.ul.GreenCheckmarkToUser("Contract deployed at %s", e.Address)
	case progress.Failed:
		// The reason is reported once, by whoever handles the returned error.
		if o.stopWaiting(false) {
			o.tracker.Failed("")
		}
		o.ul.RedXToUser("Deployment failed")
	}
}

func (o *ConsoleObserver) startWaiting() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.waiting {
		return
	}
	o.waiting = true
	o.tracker.Start(confirmationStep)
	if o.ul.IsTerminal() {
		o.spinners = ysmrr.NewSpinnerManager(ysmrr.WithWriter(o.ul.Writer()))
		o.spinner = o.spinners.AddSpinner(confirmationStep)
		o.spinners.Start()
	}
	o.stop = make(chan struct{})
	o.done.Add(1)
	go func() {
		defer o.done.Done()
		ticker := time.NewTicker(o.checkPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				o.tracker.CheckWarn()
			case <-o.stop:
				return
			}
		}
	}()
}

// stopWaiting reports whether a confirmation step was in progress.
func (o *ConsoleObserver) stopWaiting(success bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.waiting {
		return false
	}
	close(o.stop)
	o.done.Wait()
	if o.spinners != nil {
		if success {
			o.spinner.Complete()
		} else {
			o.spinner.Error()
		}
		o.spinners.Stop()
		o.spinners, o.spinner = nil, nil
	}
	o.waiting = false
	return true
}
