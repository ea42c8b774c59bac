// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package addressescmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/luxfi/pxe-deploy/internal/testutils"
	"github.com/luxfi/pxe-deploy/pkg/addresses"
	"github.com/luxfi/pxe-deploy/pkg/application"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runShow(t *testing.T, args ...string) (string, error) {
	a := application.New()
	a.Setup(t.TempDir(), viper.New())
	var out bytes.Buffer
	cmd := NewCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"show"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeAddressFile(t *testing.T, entries map[string]string) string {
	path := filepath.Join(t.TempDir(), constants.DefaultAddressesFile)
	require.NoError(t, addresses.Write(path, entries))
	return path
}

func TestShowFormats(t *testing.T) {
	require := require.New(t)
	addrs, err := testutils.GenerateAddresses(1)
	require.NoError(err)
	path := writeAddressFile(t, map[string]string{constants.DefaultContractName: addrs[0].Hex()})

	out, err := runShow(t, "--addresses-file", path, "--format", "json")
	require.NoError(err)
	require.JSONEq(`{"group_contract": "`+addrs[0].Hex()+`"}`, out)

	out, err = runShow(t, "--addresses-file", path, "--format", "yaml")
	require.NoError(err)
	var decoded map[string]string
	require.NoError(yaml.Unmarshal([]byte(out), &decoded))
	require.Equal(addrs[0].Hex(), decoded[constants.DefaultContractName])

	out, err = runShow(t, "--addresses-file", path, "--format", "table")
	require.NoError(err)
	require.Contains(out, addrs[0].Hex())

	_, err = runShow(t, "--addresses-file", path, "--format", "xml")
	require.ErrorContains(err, "unsupported format")
}

func TestShowStrict(t *testing.T) {
	path := writeAddressFile(t, map[string]string{constants.DefaultContractName: "0x1234"})

	_, err := runShow(t, "--addresses-file", path, "--format", "json")
	require.NoError(t, err)

	_, err = runShow(t, "--addresses-file", path, "--strict")
	require.ErrorIs(t, err, constants.ErrInvalidAddress)
}

func TestShowMissingFile(t *testing.T) {
	_, err := runShow(t, "--addresses-file", filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, constants.ErrPersistence)
}
