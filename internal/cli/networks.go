package cli

import (
	"github.com/greenhaze-labs/hazedeploy/internal/cli/render"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks from hazedeploy.toml",
		Long: `List the built-in networks and every [networks.<name>] section of hazedeploy.toml.

Networks without a chain_id are asked for it over RPC. The current network
is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), outputFormat(cmd))
			return renderer.RenderNetworksList(result)
		},
	}

	return cmd
}
