// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/identity"
	"github.com/luxfi/pxe-deploy/pkg/progress"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
)

var errTxPending = errors.New("transaction still pending")

// Deployed is the record of a confirmed deployment.
type Deployed struct {
	Address     pxe.Address
	TxHash      pxe.TxHash
	BlockNumber uint64
	Salt        common.Hash
}

type Deployer struct {
	env                 pxe.Environment
	log                 luxlog.Logger
	observer            progress.Observer
	confirmationTimeout time.Duration
	pollInterval        time.Duration
	warnAfter           time.Duration
	salt                func() (common.Hash, error)
}

type DeployerOption func(*Deployer)

func WithObserver(observer progress.Observer) DeployerOption {
	return func(d *Deployer) {
		if observer != nil {
			d.observer = observer
		}
	}
}

func WithConfirmationTimeout(timeout time.Duration) DeployerOption {
	return func(d *Deployer) {
		d.confirmationTimeout = timeout
	}
}

func WithPollInterval(interval time.Duration) DeployerOption {
	return func(d *Deployer) {
		d.pollInterval = interval
	}
}

// WithSaltSource overrides the random salt. Two deployments of the same
// artifact by the same sender with the same salt collide.
func WithSaltSource(salt func() (common.Hash, error)) DeployerOption {
	return func(d *Deployer) {
		d.salt = salt
	}
}

func NewDeployer(env pxe.Environment, log luxlog.Logger, opts ...DeployerOption) *Deployer {
	d := &Deployer{
		env:                 env,
		log:                 log,
		observer:            progress.Nop,
		confirmationTimeout: constants.DefaultConfirmationTimeout,
		pollInterval:        constants.DefaultPollInterval,
		warnAfter:           constants.ConfirmationWarnAfter,
		salt:                randomSalt,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func randomSalt() (common.Hash, error) {
	var salt common.Hash
	if _, err := rand.Read(salt[:]); err != nil {
		return common.Hash{}, err
	}
	return salt, nil
}

// Deploy submits one deployment of [artifact] signed by [deployer] and waits
// until it is confirmed. Constructor arguments are checked before anything is
// sent, so a mismatch never reaches the network.
func (d *Deployer) Deploy(
	ctx context.Context,
	deployer identity.Identity,
	artifact *Artifact,
	args ...any,
) (Deployed, error) {
	constructorArgs, err := artifact.PackConstructor(args...)
	if err != nil {
		return Deployed{}, err
	}
	salt, err := d.salt()
	if err != nil {
		return Deployed{}, fmt.Errorf("failed to generate deployment salt: %w", err)
	}
	tx := pxe.DeploymentTx{
		Sender:          deployer.Address,
		ArtifactName:    artifact.Name,
		Bytecode:        artifact.Bytecode,
		ConstructorArgs: constructorArgs,
		Salt:            salt,
	}

	d.log.Info("submitting deployment",
		luxlog.String("artifact", artifact.Name),
		luxlog.Stringer("sender", deployer.Address),
		luxlog.Stringer("salt", salt),
	)
	txHash, err := d.env.SendTx(ctx, tx)
	if err != nil {
		if errors.Is(err, constants.ErrConnectivity) {
			return Deployed{}, transactionError(nil, err, "failed to deploy %s", artifact.Name)
		}
		return Deployed{}, transactionError(nil, fmt.Errorf("%w: %w", constants.ErrDeployment, err), "failed to deploy %s", artifact.Name)
	}
	d.observer.OnPhase(progress.Event{Phase: progress.Submitted, Artifact: artifact.Name, TxHash: txHash})

	receipt, err := d.waitForReceipt(ctx, txHash)
	if err != nil {
		return Deployed{}, transactionError(&txHash, err, "failed to confirm %s deployment", artifact.Name)
	}
	if receipt.ContractAddress == nil || receipt.ContractAddress.IsZero() {
		return Deployed{}, transactionError(&txHash, constants.ErrDeployment, "receipt carries no contract address")
	}
	address := *receipt.ContractAddress

	instance, err := d.env.GetContractInstance(ctx, address)
	if err != nil {
		return Deployed{}, transactionError(&txHash, err, "failed to verify contract at %s", address)
	}
	if instance == nil {
		return Deployed{}, transactionError(&txHash, constants.ErrDeployment, "no contract instance found at %s", address)
	}

	deployed := Deployed{
		Address:     address,
		TxHash:      txHash,
		BlockNumber: uint64(receipt.BlockNumber),
		Salt:        salt,
	}
	d.log.Info("deployment confirmed",
		luxlog.Stringer("address", address),
		luxlog.Stringer("txHash", txHash),
		luxlog.Uint64("block", deployed.BlockNumber),
	)
	d.observer.OnPhase(progress.Event{
		Phase:    progress.Confirmed,
		Artifact: artifact.Name,
		TxHash:   txHash,
		Address:  address,
		Block:    deployed.BlockNumber,
	})
	return deployed, nil
}

func (d *Deployer) waitForReceipt(ctx context.Context, txHash pxe.TxHash) (pxe.TxReceipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, d.confirmationTimeout)
	defer cancel()

	start := time.Now()
	warned := false
	poll := func() (pxe.TxReceipt, error) {
		receipt, err := d.env.GetTxReceipt(waitCtx, txHash)
		if err != nil {
			return receipt, backoff.Permanent(err)
		}
		switch receipt.Status {
		case pxe.TxStatusSuccess:
			return receipt, nil
		case pxe.TxStatusPending, "":
			if !warned && time.Since(start) > d.warnAfter {
				d.log.Warn("deployment still pending", luxlog.Stringer("txHash", txHash), luxlog.Duration("elapsed", time.Since(start)))
				warned = true
			}
			return receipt, errTxPending
		}
		msg := receipt.Error
		if msg == "" {
			msg = "no reason given"
		}
		return receipt, backoff.Permanent(fmt.Errorf("%w: transaction %s: %s", constants.ErrDeployment, receipt.Status, msg))
	}

	receipt, err := backoff.Retry(waitCtx, poll,
		backoff.WithBackOff(backoff.NewConstantBackOff(d.pollInterval)),
		backoff.WithMaxElapsedTime(d.confirmationTimeout),
	)
	switch {
	case err == nil:
		return receipt, nil
	case errors.Is(err, errTxPending), waitCtx.Err() != nil && ctx.Err() == nil:
		return pxe.TxReceipt{}, fmt.Errorf("%w after %s", constants.ErrConfirmationTimeout, d.confirmationTimeout)
	}
	return pxe.TxReceipt{}, err
}

// transactionError decorates [err] with the hash of the transaction it
// relates to, if it was submitted at all.
func transactionError(txHash *pxe.TxHash, err error, msg string, args ...any) error {
	msgSuffix := ": %w"
	if txHash != nil {
		msgSuffix += fmt.Sprintf(" (txHash=%s)", txHash.String())
	} else {
		msgSuffix += " (tx failed to be submitted)"
	}
	args = append(args, err)
	return fmt.Errorf(msg+msgSuffix, args...)
}
