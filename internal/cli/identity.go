package cli

import (
	"github.com/spf13/cobra"
)

func newIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage identity tokens",
	}

	cmd.AddCommand(newIdentityNewCmd())
	cmd.AddCommand(newIdentityShowCmd())

	return cmd
}

func newIdentityNewCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Request a new identity token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Identity
			if err := client.Post("/api/v1/identity", nil, &result); err != nil {
				return err
			}

			if !noSave {
				if err := cfg.SaveIdentity(result.Identity); err != nil {
					return err
				}
				client.SetIdentity(result.Identity)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Don't persist the token to the identity file")

	return cmd
}

func newIdentityShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current identity token",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)
			if cfg.Identity == "" {
				out.PrintMessage("No identity configured. Run 'lobos identity new' first.")
				return nil
			}
			out.Print(Identity{Identity: cfg.Identity})
			return nil
		},
	}
}
