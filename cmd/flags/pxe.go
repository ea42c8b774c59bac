// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"

	"github.com/luxfi/pxe-deploy/pkg/application"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/spf13/cobra"
)

// AddPXEFlagToCmd adds --pxe-url to [cmd]. An explicit value is validated
// before the command runs.
func AddPXEFlagToCmd(cmd *cobra.Command, app *application.App) {
	cmd.Flags().String(constants.ConfigPXEURLKey, constants.DefaultPXEEndpoint,
		fmt.Sprintf("PXE endpoint (env %s)", constants.PXEURLEnvVar))

	AddPreRunE(cmd, func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed(constants.ConfigPXEURLKey) {
			endpoint, err := cmd.Flags().GetString(constants.ConfigPXEURLKey)
			if err != nil {
				return err
			}
			if err := pxe.ValidateEndpoint(endpoint); err != nil {
				return err
			}
		}
		return BindToConfig(cmd, app, constants.ConfigPXEURLKey)
	})
}

// BindToConfig makes the flags named [keys] a source for the config keys of
// the same name, taking precedence over env and config file when set.
func BindToConfig(cmd *cobra.Command, app *application.App, keys ...string) error {
	for _, key := range keys {
		flag := cmd.Flags().Lookup(key)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", key)
		}
		if err := app.Viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// AddPreRunE chains [preRun] after any PreRunE already set on [cmd].
func AddPreRunE(cmd *cobra.Command, preRun func(*cobra.Command, []string) error) {
	existingPreRunE := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRunE != nil {
			if err := existingPreRunE(cmd, args); err != nil {
				return err
			}
		}
		return preRun(cmd, args)
	}
}
