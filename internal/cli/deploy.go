package cli

import (
	"github.com/greenhaze-labs/hazedeploy/internal/cli/render"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		params        usecase.DeployProxyParams
		owner         string
		router        string
		stablecoin    string
		wrappedNative string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy GreenHaze behind an upgradeable proxy",
		Long: `Deploy the implementation contract, then a proxy pointing at it that calls
the initializer with the configured arguments in the same transaction.

The proxy kind is detected from the implementation ABI unless --kind is given:
contracts exposing upgradeToAndCall and proxiableUUID get an ERC1967 (UUPS)
proxy, everything else a TransparentUpgradeableProxy owned by the deployer or
[deploy] initial_owner.

An implementation already recorded in the network manifest with the same
bytecode is reused instead of deployed again.

Examples:
  hazedeploy deploy --network bscTestnet
  hazedeploy deploy --network bscTestnet --owner 0x15C944b482C537181D9947f7D1DDA225178055B5
  hazedeploy deploy --kind uups --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params.Params = domain.InitParams{
				Owner:         owner,
				Router:        router,
				Stablecoin:    stablecoin,
				WrappedNative: wrappedNative,
			}

			result, err := app.DeployProxy.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout(), outputFormat(cmd))
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&params.Contract, "contract", "", "Implementation contract, Name or path:Name (default from [deploy] contract)")
	cmd.Flags().StringVar(&params.Kind, "kind", "", "Proxy kind: auto, transparent or uups")
	cmd.Flags().StringVar(&params.Initializer, "initializer", "", "Initializer function name (default from [deploy] initializer)")
	cmd.Flags().Uint64Var(&params.Confirmations, "confirmations", 0, "Blocks to wait for after each deployment (default from [deploy] confirmations)")

	cmd.Flags().StringVar(&owner, "owner", "", "Initializer owner address")
	cmd.Flags().StringVar(&router, "router", "", "Initializer router address")
	cmd.Flags().StringVar(&stablecoin, "stablecoin", "", "Initializer stablecoin address")
	cmd.Flags().StringVar(&wrappedNative, "wrapped-native", "", "Initializer wrapped native token address")

	cmd.Flags().Bool("dry-run", false, "Resolve and validate everything and predict addresses without sending transactions")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt on remote networks")

	return cmd
}
