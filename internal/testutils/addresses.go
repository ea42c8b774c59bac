// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package testutils

import (
	"github.com/luxfi/crypto"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
)

func GenerateAddresses(count int) ([]pxe.Address, error) {
	addrs := make([]pxe.Address, count)
	for i := 0; i < count; i++ {
		pk, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		addrs[i] = pxe.Address(crypto.Keccak256Hash(crypto.FromECDSAPub(&pk.PublicKey)))
	}
	return addrs, nil
}
