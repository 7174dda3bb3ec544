package cli

import (
	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := eng.API.Register(ctx, args[0], args[1]); err != nil {
				return err
			}
			sess, err := eng.Login(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			out.PrintMessage("Registered and logged in as " + string(sess.Identity))
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in with an existing account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := eng.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			out.PrintMessage("Logged in as " + string(sess.Identity))
			return nil
		},
	}
}

func newGuestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Play as a guest with a throwaway account",
		Long: `Request a server-issued guest account and log in with it.

Guest credentials live in memory only; they are gone when the process
exits, matching the throwaway nature of the account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := eng.LoginGuest(cmd.Context())
			if err != nil {
				return err
			}
			out.PrintMessage("Playing as guest " + string(sess.Identity))
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng.Logout()
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession(cmd.Context())
			if err != nil {
				return err
			}
			out.Print(WhoamiResult{
				Identity: string(sess.Identity),
				Guest:    sess.Guest,
			})
			return nil
		},
	}
}
