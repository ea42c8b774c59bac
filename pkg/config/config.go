// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/identity"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/spf13/viper"
)

// Config holds every setting of a deploy run after flags, environment,
// config file and defaults have been merged.
type Config struct {
	PXEURL        string
	AddressesFile string
	ContractName  string
	Artifact      string

	Strategy   string
	Scheme     string
	SecretKey  string
	SigningKey string

	ConfirmationTimeout time.Duration
	PollInterval        time.Duration
	RequestTimeout      time.Duration
}

func Default() Config {
	return Config{
		PXEURL:              constants.DefaultPXEEndpoint,
		AddressesFile:       constants.DefaultAddressesFile,
		ContractName:        constants.DefaultContractName,
		Strategy:            identity.FixtureStrategyName,
		Scheme:              string(pxe.SchnorrScheme),
		ConfirmationTimeout: constants.DefaultConfirmationTimeout,
		PollInterval:        constants.DefaultPollInterval,
		RequestTimeout:      constants.APIRequestTimeout,
	}
}

func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(constants.ConfigPXEURLKey, d.PXEURL)
	v.SetDefault(constants.ConfigAddressesFileKey, d.AddressesFile)
	v.SetDefault(constants.ConfigContractNameKey, d.ContractName)
	v.SetDefault(constants.ConfigArtifactKey, d.Artifact)
	v.SetDefault(constants.ConfigStrategyKey, d.Strategy)
	v.SetDefault(constants.ConfigSchemeKey, d.Scheme)
	v.SetDefault(constants.ConfigSecretKeyKey, "")
	v.SetDefault(constants.ConfigSigningKeyKey, "")
	v.SetDefault(constants.ConfigConfirmationTimeoutKey, d.ConfirmationTimeout)
	v.SetDefault(constants.ConfigPollIntervalKey, d.PollInterval)
	v.SetDefault(constants.ConfigRequestTimeoutKey, d.RequestTimeout)
}

var prefixedKeys = []string{
	constants.ConfigAddressesFileKey,
	constants.ConfigContractNameKey,
	constants.ConfigArtifactKey,
	constants.ConfigStrategyKey,
	constants.ConfigSchemeKey,
	constants.ConfigSecretKeyKey,
	constants.ConfigSigningKeyKey,
	constants.ConfigConfirmationTimeoutKey,
	constants.ConfigPollIntervalKey,
	constants.ConfigRequestTimeoutKey,
}

// BindEnv makes every key readable from PXE_DEPLOY_<KEY> variables.
// The endpoint is read from PXE_URL first and PXE_DEPLOY_PXE_URL second.
// Keys are bound one by one: viper's automatic lookup would consult the
// prefixed name before PXE_URL.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range prefixedKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	return v.BindEnv(constants.ConfigPXEURLKey, constants.PXEURLEnvVar, constants.EnvPrefix+"_PXE_URL")
}

func Load(v *viper.Viper) (Config, error) {
	c := Config{
		PXEURL:              v.GetString(constants.ConfigPXEURLKey),
		AddressesFile:       v.GetString(constants.ConfigAddressesFileKey),
		ContractName:        v.GetString(constants.ConfigContractNameKey),
		Artifact:            v.GetString(constants.ConfigArtifactKey),
		Strategy:            v.GetString(constants.ConfigStrategyKey),
		Scheme:              v.GetString(constants.ConfigSchemeKey),
		SecretKey:           v.GetString(constants.ConfigSecretKeyKey),
		SigningKey:          v.GetString(constants.ConfigSigningKeyKey),
		ConfirmationTimeout: v.GetDuration(constants.ConfigConfirmationTimeoutKey),
		PollInterval:        v.GetDuration(constants.ConfigPollIntervalKey),
		RequestTimeout:      v.GetDuration(constants.ConfigRequestTimeoutKey),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := pxe.ValidateEndpoint(c.PXEURL); err != nil {
		return err
	}
	if c.AddressesFile == "" {
		return fmt.Errorf("%s must not be empty", constants.ConfigAddressesFileKey)
	}
	if c.ContractName == "" {
		return fmt.Errorf("%s must not be empty", constants.ConfigContractNameKey)
	}
	switch strings.ToLower(c.Strategy) {
	case identity.FixtureStrategyName, identity.FreshStrategyName:
	default:
		return fmt.Errorf("%w %q (expected %s or %s)", identity.ErrUnknownStrategy, c.Strategy,
			identity.FixtureStrategyName, identity.FreshStrategyName)
	}
	if _, err := identity.ParseScheme(c.Scheme); err != nil {
		return err
	}
	for key, d := range map[string]time.Duration{
		constants.ConfigConfirmationTimeoutKey: c.ConfirmationTimeout,
		constants.ConfigPollIntervalKey:        c.PollInterval,
		constants.ConfigRequestTimeoutKey:      c.RequestTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be a positive duration, got %s", key, d)
		}
	}
	if c.PollInterval > c.ConfirmationTimeout {
		return fmt.Errorf("%s (%s) exceeds %s (%s)", constants.ConfigPollIntervalKey, c.PollInterval,
			constants.ConfigConfirmationTimeoutKey, c.ConfirmationTimeout)
	}
	return nil
}

// IdentityStrategy builds the identity strategy selected by the config.
// Key options only apply to the fresh strategy.
func (c Config) IdentityStrategy() (identity.Strategy, error) {
	return identity.NewStrategy(c.Strategy,
		identity.WithScheme(pxe.Scheme(strings.ToLower(c.Scheme))),
		identity.WithSecretKeyHex(c.SecretKey),
		identity.WithSigningKeyHex(c.SigningKey),
	)
}

func ConfigFileExists(v *viper.Viper) bool {
	return v.ConfigFileUsed() != ""
}
