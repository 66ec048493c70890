package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "lobos",
		Short: "CLI tool for the lobos room API",
		Long: `lobos is a CLI tool for interacting with the lobos JSON API.

It supports room management, role quota configuration, account
operations and real-time room event streaming over websocket.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load identity from file if not provided via flag/env
			if err := cfg.LoadIdentity(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.Identity, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: LOBOS_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Identity, "identity", cfg.Identity, "Identity token (env: LOBOS_IDENTITY)")
	rootCmd.PersistentFlags().StringVar(&cfg.IdentityFile, "identity-file", cfg.IdentityFile, "Identity file path (env: LOBOS_IDENTITY_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Account session token (env: LOBOS_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newIdentityCmd())
	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
