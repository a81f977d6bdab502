package cli

import (
	"github.com/greenhaze-labs/hazedeploy/internal/cli/render"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		output   string
		contract string
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List proxies recorded in .openzeppelin manifests",
		Long: `List the proxies recorded in the .openzeppelin network manifests.

Without --network every manifest is read. Entries are grouped by chain,
newest first.

Examples:
  hazedeploy deployments
  hazedeploy deployments --network bscTestnet --output yaml
  hazedeploy deployments --contract GreenHaze`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}
			if format == render.FormatText {
				format = outputFormat(cmd)
			}

			// Only an explicit --network narrows the listing; the configured
			// default would otherwise hide every other chain.
			var network string
			if cmd.Flags().Changed("network") {
				network = app.Config.NetworkName
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				Network:  network,
				Contract: contract,
			})
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout(), format)
			return renderer.RenderDeploymentList(result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&contract, "contract", "", "Only show proxies of this contract")

	return cmd
}
