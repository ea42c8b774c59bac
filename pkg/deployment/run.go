// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployment runs a complete deployment: connect, resolve
// identities, load the artifact, deploy, then record the address.
package deployment

import (
	"context"
	"fmt"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/pkg/addresses"
	"github.com/luxfi/pxe-deploy/pkg/config"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/contract"
	"github.com/luxfi/pxe-deploy/pkg/identity"
	"github.com/luxfi/pxe-deploy/pkg/progress"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
)

// Session is a connected environment.
type Session interface {
	pxe.Environment
	Endpoint() string
	Close()
}

// Connector opens a session to [endpoint].
type Connector func(ctx context.Context, endpoint string) (Session, error)

// PXEConnector dials a JSON-RPC PXE.
func PXEConnector(opts ...pxe.Option) Connector {
	return func(ctx context.Context, endpoint string) (Session, error) {
		client, err := pxe.Dial(ctx, endpoint, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

type Result struct {
	Endpoint      string
	Deployer      identity.Identity
	Identities    []identity.Identity
	Artifact      string
	Deployed      contract.Deployed
	ContractName  string
	AddressesFile string
}

type Runner struct {
	cfg      config.Config
	connect  Connector
	log      luxlog.Logger
	observer progress.Observer
}

func NewRunner(cfg config.Config, connect Connector, log luxlog.Logger, observer progress.Observer) *Runner {
	if observer == nil {
		observer = progress.Nop
	}
	return &Runner{
		cfg:      cfg,
		connect:  connect,
		log:      log,
		observer: progress.Multi(progress.NewLogObserver(log), observer),
	}
}

// Run performs one deployment. The address file is written only once the
// deployment is confirmed; any failure before that leaves it untouched.
func (r *Runner) Run(ctx context.Context, strategy identity.Strategy) (Result, error) {
	result, err := r.run(ctx, strategy)
	if err != nil {
		r.observer.OnPhase(progress.Event{Phase: progress.Failed, Err: err})
		return Result{}, err
	}
	return result, nil
}

func (r *Runner) run(ctx context.Context, strategy identity.Strategy) (Result, error) {
	session, err := r.connect(ctx, r.cfg.PXEURL)
	if err != nil {
		return Result{}, err
	}
	defer session.Close()

	info, err := session.GetNodeInfo(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to reach pxe at %s: %w", r.cfg.PXEURL, err)
	}
	r.observer.OnPhase(progress.Event{
		Phase:       progress.Connected,
		Endpoint:    session.Endpoint(),
		NodeVersion: info.NodeVersion,
	})

	identities, err := identity.NewProvider(session, r.log).Resolve(ctx, strategy)
	if err != nil {
		return Result{}, err
	}
	deployer := identities[constants.DeployerIdentityIndex]
	r.observer.OnPhase(progress.Event{
		Phase:            progress.IdentitiesResolved,
		Identities:       len(identities),
		Deployer:         deployer.Address,
		DeployerComplete: deployer.CompleteAddress,
	})

	artifact, err := contract.LoadArtifact(r.cfg.Artifact)
	if err != nil {
		return Result{}, err
	}
	r.observer.OnPhase(progress.Event{Phase: progress.ArtifactLoaded, Artifact: artifact.Name})

	deployed, err := contract.NewDeployer(session, r.log,
		contract.WithObserver(r.observer),
		contract.WithConfirmationTimeout(r.cfg.ConfirmationTimeout),
		contract.WithPollInterval(r.cfg.PollInterval),
	).Deploy(ctx, deployer, artifact, deployer.CompleteAddress)
	if err != nil {
		return Result{}, err
	}

	if err := addresses.WriteContract(r.cfg.AddressesFile, r.cfg.ContractName, deployed.Address); err != nil {
		return Result{}, fmt.Errorf("contract deployed at %s but %w", deployed.Address, err)
	}
	r.log.Info("address file written",
		luxlog.String("path", r.cfg.AddressesFile),
		luxlog.String("name", r.cfg.ContractName),
	)

	return Result{
		Endpoint:      session.Endpoint(),
		Deployer:      deployer,
		Identities:    identities,
		Artifact:      artifact.Name,
		Deployed:      deployed,
		ContractName:  r.cfg.ContractName,
		AddressesFile: r.cfg.AddressesFile,
	}, nil
}
