// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package addressescmd

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/pxe-deploy/cmd/flags"
	"github.com/luxfi/pxe-deploy/pkg/addresses"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/luxfi/pxe-deploy/pkg/ux"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

var (
	format string
	strict bool
)

// pxe-deploy addresses show
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the address file",
		RunE:  show,
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String(constants.ConfigAddressesFileKey, constants.DefaultAddressesFile, "address file to read")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: json, yaml or table")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if an entry is not a well formed address")
	flags.AddPreRunE(cmd, func(cmd *cobra.Command, _ []string) error {
		return flags.BindToConfig(cmd, app, constants.ConfigAddressesFileKey)
	})
	return cmd
}

func show(cmd *cobra.Command, _ []string) error {
	path := app.Viper.GetString(constants.ConfigAddressesFileKey)
	recorded, err := addresses.Read(path)
	if err != nil {
		return err
	}
	if strict {
		for name, value := range recorded {
			if _, err := pxe.ParseAddress(value); err != nil {
				return fmt.Errorf("entry %q: %w", name, err)
			}
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		bytes, err := json.MarshalIndent(recorded, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(bytes))
		return err
	case formatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(recorded); err != nil {
			return err
		}
		return encoder.Close()
	case formatTable:
		return ux.PrintAddresses(out, recorded)
	}
	return fmt.Errorf("unsupported format %q (expected %s, %s or %s)", format, formatJSON, formatYAML, formatTable)
}
