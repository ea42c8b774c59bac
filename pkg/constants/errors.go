// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrConnectivity        = errors.New("pxe endpoint unreachable")
	ErrInvalidEndpoint     = errors.New("invalid pxe endpoint")
	ErrIdentityResolution  = errors.New("identity resolution failed")
	ErrNoIdentities        = errors.New("\n\nNot enough pre-provisioned identities found. To resolve this:\n- Make sure the PXE is connected to a sandbox with test accounts.\n- Or use '--strategy fresh' to register a new account.\n") //nolint:stylecheck
	ErrConstructorArgs     = errors.New("constructor arguments do not match artifact")
	ErrDeployment          = errors.New("deployment failed")
	ErrConfirmationTimeout = errors.New("timed out waiting for deployment confirmation")
	ErrPersistence         = errors.New("failed to persist addresses")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidArtifact     = errors.New("invalid contract artifact")
)
