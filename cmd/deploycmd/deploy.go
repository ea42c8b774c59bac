// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/cmd/flags"
	"github.com/luxfi/pxe-deploy/pkg/application"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/deployment"
	"github.com/luxfi/pxe-deploy/pkg/identity"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/luxfi/pxe-deploy/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app            *application.App
	showIdentities bool

	configFlags = []string{
		constants.ConfigAddressesFileKey,
		constants.ConfigContractNameKey,
		constants.ConfigArtifactKey,
		constants.ConfigStrategyKey,
		constants.ConfigSchemeKey,
		constants.ConfigSecretKeyKey,
		constants.ConfigSigningKeyKey,
		constants.ConfigConfirmationTimeoutKey,
		constants.ConfigPollIntervalKey,
		constants.ConfigRequestTimeoutKey,
	}
)

// pxe-deploy deploy
func NewCmd(injectedApp *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the group contract and record its address",
		Long: `The deploy command connects to a PXE, resolves the signer identities,
deploys one new instance of the contract with the deployer's complete address
as admin, waits for confirmation and writes the contract address to the
address file.

Every run deploys a new instance. The address file is overwritten only after
the deployment is confirmed.`,
		RunE: deploy,
		Args: cobra.NoArgs,
	}
	app = injectedApp
	flags.AddPXEFlagToCmd(cmd, app)
	cmd.Flags().String(constants.ConfigAddressesFileKey, constants.DefaultAddressesFile, "file the contract address is written to")
	cmd.Flags().String(constants.ConfigContractNameKey, constants.DefaultContractName, "key the contract address is recorded under")
	cmd.Flags().String(constants.ConfigArtifactKey, "", "contract artifact JSON file (defaults to the embedded PublicGroups artifact)")
	cmd.Flags().String(constants.ConfigStrategyKey, identity.FixtureStrategyName, "identity strategy: fixture uses the PXE test accounts, fresh registers a new account")
	cmd.Flags().String(constants.ConfigSchemeKey, string(pxe.SchnorrScheme), "signature scheme of a fresh account (schnorr or ecdsa-secp256k1)")
	cmd.Flags().String(constants.ConfigSecretKeyKey, "", "hex secret key of a fresh account (generated when empty)")
	cmd.Flags().String(constants.ConfigSigningKeyKey, "", "hex signing key of a fresh account (generated when empty)")
	cmd.Flags().Duration(constants.ConfigConfirmationTimeoutKey, constants.DefaultConfirmationTimeout, "how long to wait for the deployment to be confirmed")
	cmd.Flags().Duration(constants.ConfigPollIntervalKey, constants.DefaultPollInterval, "interval between confirmation checks")
	cmd.Flags().Duration(constants.ConfigRequestTimeoutKey, constants.APIRequestTimeout, "timeout of a single PXE request")
	cmd.Flags().BoolVar(&showIdentities, "show-identities", false, "print the resolved identities once deployed")
	flags.AddPreRunE(cmd, func(cmd *cobra.Command, _ []string) error {
		return flags.BindToConfig(cmd, app, configFlags...)
	})
	return cmd
}

func deploy(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	strategy, err := cfg.IdentityStrategy()
	if err != nil {
		return err
	}
	app.Log.Info("starting deployment",
		luxlog.String("endpoint", cfg.PXEURL),
		luxlog.Stringer("strategy", strategy),
		luxlog.String("addressesFile", cfg.AddressesFile),
	)

	// User lines are recorded in the log file only; the console already shows them.
	ul := ux.NewUserLogger(app.FileLog, cmd.OutOrStdout())
	runner := deployment.NewRunner(
		cfg,
		deployment.PXEConnector(pxe.WithRequestTimeout(cfg.RequestTimeout)),
		app.FileLog,
		ux.NewConsoleObserver(ul, constants.ConfirmationWarnAfter),
	)
	result, err := runner.Run(cmd.Context(), strategy)
	if err != nil {
		return err
	}

	if showIdentities {
		if err := ux.PrintIdentities(ul.Writer(), result.Identities); err != nil {
			return err
		}
	}
	ul.GreenCheckmarkToUser("Contract address written to %s", result.AddressesFile)
	ul.PrintToUser("Deployment completed. Contract Address: %s", result.Deployed.Address)
	return nil
}
