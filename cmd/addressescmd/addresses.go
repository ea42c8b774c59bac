// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package addressescmd

import (
	"github.com/luxfi/pxe-deploy/pkg/application"
	"github.com/spf13/cobra"
)

var app *application.App

// pxe-deploy addresses
func NewCmd(injectedApp *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Inspect the recorded contract addresses",
		Long: `The addresses command suite reads the address file written by deploy, the
way downstream tooling consumes it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		Args: cobra.NoArgs,
	}
	app = injectedApp
	// addresses show
	cmd.AddCommand(newShowCmd())
	return cmd
}
