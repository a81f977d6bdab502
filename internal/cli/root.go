package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/progress"
	"github.com/greenhaze-labs/hazedeploy/internal/app"
	"github.com/greenhaze-labs/hazedeploy/internal/cli/render"
	"github.com/greenhaze-labs/hazedeploy/internal/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// annotationInlineSecrets lets a command load a project file that still
	// carries private keys
	annotationInlineSecrets = "inline-secrets"
)

// AppInitializer builds the application for one command invocation
type AppInitializer func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error)

type rootOptions struct {
	initApp AppInitializer
}

// Option customizes the root command
type Option func(*rootOptions)

// WithAppInitializer replaces the wire-generated app constructor
func WithAppInitializer(fn AppInitializer) Option {
	return func(o *rootOptions) {
		o.initApp = fn
	}
}

// NewRootCmd creates the root command
func NewRootCmd(opts ...Option) *cobra.Command {
	options := &rootOptions{initApp: app.InitApp}
	for _, opt := range opts {
		opt(options)
	}

	rootCmd := &cobra.Command{
		Use:   "hazedeploy",
		Short: "Upgradeable proxy deployer for the GreenHaze contract",
		Long: `hazedeploy deploys the GreenHaze contract behind an OpenZeppelin upgradeable
proxy (transparent or UUPS), initializes it in the same transaction and records
the result in the .openzeppelin network manifest.

Networks, compiler settings and initializer arguments are read from
hazedeploy.toml. Private keys are never stored there: accounts reference
environment variables such as ${DEPLOYER_PRIVATE_KEY}, loaded from the
environment, .env or .env.local.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				projectRoot = config.ResolveProjectRoot()
			}

			v := config.SetupViper(projectRoot, cmd)
			v.Set("project_root", projectRoot)
			if cmd.Annotations[annotationInlineSecrets] == "allow" {
				v.Set("allow_inline_secrets", true)
			}

			appInstance, err := options.initApp(v, newProgressSink(cmd))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (defaults to default_network in hazedeploy.toml)")
	rootCmd.PersistentFlags().String("timeout", "", "Overall deadline for a deployment, e.g. 5m")
	rootCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the nearest directory with hazedeploy.toml)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "main"
	rootCmd.AddCommand(deploymentsCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the CLI with the given arguments and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	rootCmd := NewRootCmd(opts...)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, render.FormatError(err))
		return 1
	}
	return 0
}

// newProgressSink picks the spinner only when a person is watching stderr
func newProgressSink(cmd *cobra.Command) usecase.ProgressSink {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")

	if jsonOutput || nonInteractive || color.NoColor || cmd.ErrOrStderr() != io.Writer(os.Stderr) {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter(cmd.ErrOrStderr())
}

// outputFormat returns JSON when --json is set, text otherwise
func outputFormat(cmd *cobra.Command) render.Format {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return render.FormatJSON
	}
	return render.FormatText
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
