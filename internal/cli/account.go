package cli

import (
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(newAccountRegisterCmd())
	cmd.AddCommand(newAccountLoginCmd())
	cmd.AddCommand(newAccountMeCmd())
	cmd.AddCommand(newAccountLogoutCmd())

	return cmd
}

func newAccountRegisterCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Register an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"email":        args[0],
				"password":     args[1],
				"display_name": name,
			}

			var result AuthResult
			if err := client.Post("/api/v1/accounts/register", body, &result); err != nil {
				return err
			}

			client.SetToken(result.SessionToken)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")

	return cmd
}

func newAccountLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"email":    args[0],
				"password": args[1],
			}

			var result AuthResult
			if err := client.Post("/api/v1/accounts/login", body, &result); err != nil {
				return err
			}

			client.SetToken(result.SessionToken)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAccountMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Account
			if err := client.Get("/api/v1/accounts/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAccountLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/accounts/logout", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}
