// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName = ".pxe-deploy"
	LogDir      = "logs"
	LogFileName = "pxe-deploy.log"

	MaxLogFileSize   = 4 // megabytes
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	DefaultConfigFileName = "config"
	DefaultConfigFileType = "yaml"

	// PXE endpoint
	PXEURLEnvVar       = "PXE_URL"
	EnvPrefix          = "PXE_DEPLOY"
	DefaultPXEEndpoint = "http://localhost:8080"

	// Deployment defaults
	DefaultAddressesFile  = "addresses.json"
	DefaultContractName   = "group_contract"
	DefaultArtifactName   = "PublicGroups"
	MinFixtureIdentities  = 3
	DeployerIdentityIndex = 0

	APIRequestTimeout          = 30 * time.Second
	DefaultConfirmationTimeout = 2 * time.Minute
	DefaultPollInterval        = 1 * time.Second

	// a confirmation step running longer than this gets a warning line
	ConfirmationWarnAfter = 30 * time.Second

	// Config keys
	ConfigPXEURLKey              = "pxe-url"
	ConfigAddressesFileKey       = "addresses-file"
	ConfigContractNameKey        = "contract-name"
	ConfigArtifactKey            = "artifact"
	ConfigStrategyKey            = "strategy"
	ConfigSchemeKey              = "scheme"
	ConfigSecretKeyKey           = "secret-key"
	ConfigSigningKeyKey          = "signing-key"
	ConfigConfirmationTimeoutKey = "timeout"
	ConfigPollIntervalKey        = "poll-interval"
	ConfigRequestTimeoutKey      = "request-timeout"
)
