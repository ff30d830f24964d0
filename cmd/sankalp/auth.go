package main

import (
	"fmt"
	"os"

	"github.com/alfredjeanlab/sankalp/internal/ui"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in and store the session token",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		passwordStdin, _ := cmd.Flags().GetBool("password-stdin")

		var err error
		if username == "" {
			username, err = ui.ReadLine(os.Stdin, cmd.ErrOrStderr(), "Username: ")
			if err != nil {
				return err
			}
		}
		var password string
		if passwordStdin {
			password, err = ui.ReadLine(os.Stdin, cmd.ErrOrStderr(), "")
		} else {
			password, err = ui.ReadSecret(os.Stdin, cmd.ErrOrStderr(), "Password: ")
		}
		if err != nil {
			return err
		}
		return app.Login(cmd.Context(), username, password)
	},
}

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Forget the stored session",
	GroupID:     "session",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationOffline: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the signed-in operator",
	GroupID:     "session",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationOffline: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ok := app.Authenticated()
		username := app.Session.Username()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"authenticated": ok,
				"username":      username,
			})
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMuted("Not signed in."))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), username)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "username (prompted when omitted)")
	loginCmd.Flags().Bool("password-stdin", false, "read the password from stdin without prompting")
}
