package cli

import (
	"github.com/greenhaze-labs/hazedeploy/internal/cli/render"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and manage hazedeploy configuration",
		Long: `Show the resolved configuration and manage machine-local settings stored in
.hazedeploy/config.local.json.

Local settings override hazedeploy.toml on this machine only; HAZE_* environment
variables and command line flags override both.

Available subcommands:
  config                   Show current config
  config set               Set a local config value
  config remove            Remove a local config value
  config migrate-secrets   Move private keys out of hazedeploy.toml

When run without subcommands, displays the current config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default action is to show config
			return showConfig(cmd)
		},
	}

	cmd.AddCommand(NewConfigSetCmd())
	cmd.AddCommand(NewConfigRemoveCmd())
	cmd.AddCommand(NewConfigMigrateSecretsCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a local config value",
		Long: `Set a value in .hazedeploy/config.local.json.
Available keys: network (net), timeout

Examples:
  hazedeploy config set network bscTestnet
  hazedeploy config set timeout 10m`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{
				Key:   args[0],
				Value: args[1],
			})
			if err != nil {
				return err
			}

			return render.NewConfigRenderer(cmd.OutOrStdout(), outputFormat(cmd)).RenderSet(result)
		},
	}
}

// NewConfigRemoveCmd creates the config remove subcommand
func NewConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a local config value",
		Long: `Remove a value from .hazedeploy/config.local.json.
Removing network falls back to default_network from hazedeploy.toml.
Removing timeout restores the built-in default.

Examples:
  hazedeploy config remove network
  hazedeploy config remove timeout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{
				Key: args[0],
			})
			if err != nil {
				return err
			}

			return render.NewConfigRenderer(cmd.OutOrStdout(), outputFormat(cmd)).RenderRemove(result)
		},
	}
}

// NewConfigMigrateSecretsCmd creates the config migrate-secrets subcommand
func NewConfigMigrateSecretsCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate-secrets",
		Short: "Move private keys from hazedeploy.toml to .env",
		Long: `Find private keys written directly in [networks.<name>] accounts, append each
to .env under <NETWORK>_PRIVATE_KEY and replace it in hazedeploy.toml with a
${<NETWORK>_PRIVATE_KEY} reference.

Every other command refuses to run while such keys are present.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationInlineSecrets: "allow"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.MigrateSecrets.Run(cmd.Context(), usecase.MigrateSecretsParams{
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			return render.NewConfigRenderer(cmd.OutOrStdout(), outputFormat(cmd)).RenderMigrateSecrets(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the keys that would move without changing any file")

	return cmd
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	return render.NewConfigRenderer(cmd.OutOrStdout(), outputFormat(cmd)).RenderConfig(result)
}
