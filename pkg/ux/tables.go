// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"sort"

	"github.com/luxfi/pxe-deploy/pkg/identity"
	"github.com/olekukonko/tablewriter"
)

// DefaultTable creates a table writing to [w] with the given headers
func DefaultTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	anyHeaders := make([]any, len(headers))
	for i, h := range headers {
		anyHeaders[i] = h
	}
	table.Header(anyHeaders...)
	return table
}

// PrintIdentities renders one row per identity, the deployer first.
func PrintIdentities(w io.Writer, identities []identity.Identity) error {
	table := DefaultTable(w, "#", "Role", "Address", "Scheme")
	for i, id := range identities {
		role := "counterparty"
		if i == 0 {
			role = "deployer"
		}
		if err := table.Append([]string{fmt.Sprint(i), role, id.Address.Hex(), string(id.Keys.Scheme)}); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintAddresses renders an address file, sorted by name.
func PrintAddresses(w io.Writer, addresses map[string]string) error {
	names := make([]string, 0, len(addresses))
	for name := range addresses {
		names = append(names, name)
	}
	sort.Strings(names)

	table := DefaultTable(w, "Name", "Address")
	for _, name := range names {
		if err := table.Append([]string{name, addresses[name]}); err != nil {
			return err
		}
	}
	return table.Render()
}
