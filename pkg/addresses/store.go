// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package addresses persists deployed contract addresses for downstream
// tooling, as a flat JSON object of logical name to address.
package addresses

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
)

// Write replaces the file at [path] with [addresses], indented by two
// spaces. The parent directory must already exist.
func Write(path string, addresses map[string]string) error {
	bytes, err := json.MarshalIndent(addresses, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", constants.ErrPersistence, err)
	}
	if err := os.WriteFile(path, bytes, constants.WriteReadReadPerms); err != nil {
		return fmt.Errorf("%w: %w", constants.ErrPersistence, err)
	}
	return nil
}

// WriteContract records a single contract under [name], discarding any
// previous content of the file.
func WriteContract(path string, name string, address pxe.Address) error {
	return Write(path, map[string]string{name: address.Hex()})
}

func Read(path string) (map[string]string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrPersistence, err)
	}
	addresses := map[string]string{}
	if err := json.Unmarshal(bytes, &addresses); err != nil {
		return nil, fmt.Errorf("%w: %s is not an address file: %w", constants.ErrPersistence, path, err)
	}
	return addresses, nil
}

// Lookup returns the parsed address recorded under [name].
func Lookup(path string, name string) (pxe.Address, error) {
	addresses, err := Read(path)
	if err != nil {
		return pxe.Address{}, err
	}
	value, ok := addresses[name]
	if !ok {
		return pxe.Address{}, fmt.Errorf("%w: %s has no entry %q", constants.ErrPersistence, path, name)
	}
	return pxe.ParseAddress(value)
}
