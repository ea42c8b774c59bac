// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/identity"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	require.NoError(t, BindEnv(v))
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(constants.PXEURLEnvVar, "")
	require := require.New(t)

	c, err := Load(newViper(t))
	require.NoError(err)
	require.Equal(Default(), c)
	require.Equal("http://localhost:8080", c.PXEURL)
	require.Equal("addresses.json", c.AddressesFile)
	require.Equal("group_contract", c.ContractName)
}

func TestPXEURLFromEnv(t *testing.T) {
	require := require.New(t)
	t.Setenv(constants.PXEURLEnvVar, "http://pxe.internal:8081")
	t.Setenv("PXE_DEPLOY_PXE_URL", "http://ignored:1")

	c, err := Load(newViper(t))
	require.NoError(err)
	require.Equal("http://pxe.internal:8081", c.PXEURL)
}

func TestPXEURLPrefixedFallback(t *testing.T) {
	require := require.New(t)
	t.Setenv(constants.PXEURLEnvVar, "")
	t.Setenv("PXE_DEPLOY_PXE_URL", "http://prefixed:9000")

	c, err := Load(newViper(t))
	require.NoError(err)
	require.Equal("http://prefixed:9000", c.PXEURL)
}

func TestPrefixedEnv(t *testing.T) {
	require := require.New(t)
	t.Setenv(constants.PXEURLEnvVar, "")
	t.Setenv("PXE_DEPLOY_STRATEGY", "fresh")
	t.Setenv("PXE_DEPLOY_TIMEOUT", "45s")
	t.Setenv("PXE_DEPLOY_ADDRESSES_FILE", "out.json")

	c, err := Load(newViper(t))
	require.NoError(err)
	require.Equal("fresh", c.Strategy)
	require.Equal(45*time.Second, c.ConfirmationTimeout)
	require.Equal("out.json", c.AddressesFile)
}

func TestConfigFile(t *testing.T) {
	require := require.New(t)
	t.Setenv(constants.PXEURLEnvVar, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(path, []byte("pxe-url: https://pxe.example.org\ncontract-name: groups\npoll-interval: 250ms\n"), constants.WriteReadReadPerms))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(v.ReadInConfig())
	require.True(ConfigFileExists(v))

	c, err := Load(v)
	require.NoError(err)
	require.Equal("https://pxe.example.org", c.PXEURL)
	require.Equal("groups", c.ContractName)
	require.Equal(250*time.Millisecond, c.PollInterval)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"bad url":       func(c *Config) { c.PXEURL = "localhost" },
		"no file":       func(c *Config) { c.AddressesFile = "" },
		"no name":       func(c *Config) { c.ContractName = "" },
		"bad strategy":  func(c *Config) { c.Strategy = "borrowed" },
		"bad scheme":    func(c *Config) { c.Scheme = "rsa" },
		"zero timeout":  func(c *Config) { c.ConfirmationTimeout = 0 },
		"negative poll": func(c *Config) { c.PollInterval = -time.Second },
		"slow poll":     func(c *Config) { c.PollInterval = 3 * time.Minute },
	} {
		c := Default()
		mutate(&c)
		require.Error(t, c.Validate(), name)
	}
	require.NoError(t, Default().Validate())
}

func TestIdentityStrategy(t *testing.T) {
	require := require.New(t)

	s, err := Default().IdentityStrategy()
	require.NoError(err)
	require.False(s.IsFresh())

	c := Default()
	c.Strategy = identity.FreshStrategyName
	c.Scheme = "ECDSA-SECP256K1"
	s, err = c.IdentityStrategy()
	require.NoError(err)
	require.True(s.IsFresh())
	require.Equal(pxe.ECDSAScheme, s.Keys().Scheme)
}
