// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package infocmd

import (
	"fmt"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/cmd/flags"
	"github.com/luxfi/pxe-deploy/pkg/application"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/contract"
	"github.com/luxfi/pxe-deploy/pkg/dependencies"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/luxfi/pxe-deploy/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app        *application.App
	minVersion string
)

// pxe-deploy info
func NewCmd(injectedApp *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the PXE node and the contract that would be deployed",
		Long: `The info command queries the PXE for its node information and prints it
together with the contract artifact deploy would use. With --min-version it
fails if the node is older than the given version.`,
		RunE: info,
		Args: cobra.NoArgs,
	}
	app = injectedApp
	flags.AddPXEFlagToCmd(cmd, app)
	cmd.Flags().String(constants.ConfigArtifactKey, "", "contract artifact JSON file (defaults to the embedded PublicGroups artifact)")
	cmd.Flags().Duration(constants.ConfigRequestTimeoutKey, constants.APIRequestTimeout, "timeout of a single PXE request")
	cmd.Flags().StringVar(&minVersion, "min-version", "", "fail if the PXE node version is lower than this")
	flags.AddPreRunE(cmd, func(cmd *cobra.Command, _ []string) error {
		return flags.BindToConfig(cmd, app, constants.ConfigArtifactKey, constants.ConfigRequestTimeoutKey)
	})
	return cmd
}

func info(cmd *cobra.Command, _ []string) error {
	endpoint := app.Viper.GetString(constants.ConfigPXEURLKey)
	client, err := pxe.Dial(cmd.Context(), endpoint,
		pxe.WithRequestTimeout(app.Viper.GetDuration(constants.ConfigRequestTimeoutKey)))
	if err != nil {
		return err
	}
	defer client.Close()

	nodeInfo, err := client.GetNodeInfo(cmd.Context())
	if err != nil {
		return err
	}
	app.Log.Debug("node info", luxlog.String("endpoint", endpoint), luxlog.String("version", nodeInfo.NodeVersion))
	if err := dependencies.CheckVersionIsOverMin("pxe node", nodeInfo.NodeVersion, minVersion); err != nil {
		return err
	}

	artifact, err := contract.LoadArtifact(app.Viper.GetString(constants.ConfigArtifactKey))
	if err != nil {
		return err
	}

	table := ux.DefaultTable(cmd.OutOrStdout(), "Property", "Value")
	for _, row := range [][]string{
		{"Endpoint", endpoint},
		{"Node Version", nodeInfo.NodeVersion},
		{"L1 Chain ID", fmt.Sprint(uint64(nodeInfo.L1ChainID))},
		{"Protocol Version", fmt.Sprint(nodeInfo.ProtocolVersion)},
		{"Artifact", artifact.Name},
		{"Constructor", artifact.ConstructorSignature()},
		{"Bytecode Size", ux.ConvertToStringWithThousandSeparator(uint64(len(artifact.Bytecode))) + " bytes"},
		{"Config File", configFile()},
	} {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func configFile() string {
	if !app.ConfigFileExists() {
		return "none"
	}
	return app.Viper.ConfigFileUsed()
}
