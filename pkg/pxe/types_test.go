// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pxe

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/stretchr/testify/require"
)

const testAddressHex = "0x2fd4503a8a9c1e6b7ad8b7a4e1c3d2f0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c5d4"

func TestParseAddress(t *testing.T) {
	require := require.New(t)

	addr, err := ParseAddress(testAddressHex)
	require.NoError(err)
	require.Equal(testAddressHex, addr.Hex())
	require.Equal(testAddressHex, addr.String())
	require.False(addr.IsZero())

	upper, err := ParseAddress("0x" + strings.ToUpper(testAddressHex[2:]))
	require.NoError(err)
	require.Equal(addr, upper)
}

func TestParseAddressInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		testAddressHex[2:],
		testAddressHex[:len(testAddressHex)-2],
		testAddressHex + "00",
		"0xzz" + testAddressHex[4:],
	} {
		_, err := ParseAddress(input)
		require.ErrorIs(t, err, constants.ErrInvalidAddress, input)
	}
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr, err := ParseAddress(testAddressHex)
	require.NoError(err)

	out, err := json.Marshal(map[string]Address{"group_contract": addr})
	require.NoError(err)
	require.JSONEq(`{"group_contract":"`+testAddressHex+`"}`, string(out))

	var decoded map[string]Address
	require.NoError(json.Unmarshal(out, &decoded))
	require.Equal(addr, decoded["group_contract"])
}

func TestCompleteAddressString(t *testing.T) {
	require := require.New(t)
	addr, err := ParseAddress(testAddressHex)
	require.NoError(err)
	complete := CompleteAddress{
		Address:        addr,
		PublicKeys:     []byte{0xab, 0xcd},
		PartialAddress: Address{31: 0x01},
	}
	s := complete.String()
	require.True(strings.HasPrefix(s, testAddressHex+"abcd"))
	require.True(strings.HasSuffix(s, "01"))
	require.Len(s, 2+64+4+64)

	tuple, ok := complete.ABIValue().(completeAddressTuple)
	require.True(ok)
	require.Equal([]byte{0xab, 0xcd}, tuple.PublicKeys)
	require.Equal([AddressLength]byte(addr), tuple.Address)
}
