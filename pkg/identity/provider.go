// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
)

var ErrUnknownStrategy = errors.New("unknown identity strategy")

// Identity is a usable signer: an account together with the keys controlling it.
type Identity struct {
	Address         pxe.Address
	CompleteAddress pxe.CompleteAddress
	Keys            pxe.KeyMaterial
}

type strategyKind int

const (
	fixtureKind strategyKind = iota
	freshKind
)

const (
	FixtureStrategyName = "fixture"
	FreshStrategyName   = "fresh"
)

// Strategy selects how identities are obtained for a run: either the
// environment's pre-provisioned test accounts, or a single new account
// registered from caller-supplied key material.
type Strategy struct {
	kind strategyKind
	keys pxe.KeyMaterial
}

func Fixture() Strategy {
	return Strategy{kind: fixtureKind}
}

func Fresh(keys pxe.KeyMaterial) Strategy {
	return Strategy{kind: freshKind, keys: keys}
}

// NewStrategy maps a strategy name to a Strategy. For "fresh", [opts] select
// the scheme and any pre-defined keys; missing keys are generated.
func NewStrategy(name string, opts ...KeyOption) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", FixtureStrategyName:
		return Fixture(), nil
	case FreshStrategyName:
		keys, err := NewKeyMaterial(opts...)
		if err != nil {
			return Strategy{}, err
		}
		return Fresh(keys), nil
	}
	return Strategy{}, fmt.Errorf("%w %q (expected %s or %s)", ErrUnknownStrategy, name, FixtureStrategyName, FreshStrategyName)
}

func (s Strategy) IsFresh() bool {
	return s.kind == freshKind
}

// Keys returns the key material of a fresh strategy.
func (s Strategy) Keys() pxe.KeyMaterial {
	return s.keys
}

func (s Strategy) String() string {
	if s.IsFresh() {
		return FreshStrategyName
	}
	return FixtureStrategyName
}

// AccountSource is the part of the environment identities are resolved from.
type AccountSource interface {
	GetTestAccounts(ctx context.Context) ([]pxe.Account, error)
	RegisterAccount(ctx context.Context, keys pxe.KeyMaterial) (pxe.CompleteAddress, error)
}

type Provider struct {
	source AccountSource
	log    luxlog.Logger
}

func NewProvider(source AccountSource, log luxlog.Logger) *Provider {
	return &Provider{
		source: source,
		log:    log,
	}
}

// Resolve returns the identities available for the run, deployer first.
func (p *Provider) Resolve(ctx context.Context, strategy Strategy) ([]Identity, error) {
	if strategy.IsFresh() {
		identity, err := p.register(ctx, strategy.keys)
		if err != nil {
			return nil, err
		}
		return []Identity{identity}, nil
	}
	return p.fixtures(ctx)
}

func (p *Provider) fixtures(ctx context.Context) ([]Identity, error) {
	accounts, err := p.source.GetTestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get test accounts: %w", err)
	}
	if len(accounts) < constants.MinFixtureIdentities {
		return nil, fmt.Errorf("found %d test accounts, need %d: %w", len(accounts), constants.MinFixtureIdentities, constants.ErrNoIdentities)
	}
	identities := make([]Identity, len(accounts))
	for i, account := range accounts {
		identities[i] = Identity{
			Address:         account.CompleteAddress.Address,
			CompleteAddress: account.CompleteAddress,
			Keys:            account.Keys,
		}
	}
	p.log.Debug("resolved fixture identities", luxlog.Int("count", len(identities)))
	return identities, nil
}

func (p *Provider) register(ctx context.Context, keys pxe.KeyMaterial) (Identity, error) {
	p.log.Info("registering fresh account", luxlog.String("scheme", string(keys.Scheme)))
	completeAddress, err := p.source.RegisterAccount(ctx, keys)
	if err != nil {
		if errors.Is(err, constants.ErrConnectivity) {
			return Identity{}, err
		}
		return Identity{}, fmt.Errorf("%w: account registration: %w", constants.ErrIdentityResolution, err)
	}
	if completeAddress.Address.IsZero() {
		return Identity{}, fmt.Errorf("%w: pxe returned an empty address", constants.ErrIdentityResolution)
	}
	p.log.Info("registered fresh account", luxlog.Stringer("address", completeAddress.Address))
	return Identity{
		Address:         completeAddress.Address,
		CompleteAddress: completeAddress,
		Keys:            keys,
	}, nil
}
