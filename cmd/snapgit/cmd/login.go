package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check the credentials of the configured identity",
	Long: `Check that the configured identity may reach its repositories on the remote service.

The identity and the token are taken from the configuration. This command only checks them: every other command
logs in on its own.`,
	Example: `% SNAPGIT_TOKEN=xxx snapgit login --backend github --identity alice
logged in as alice on GitHub`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := newClient(ctx, !snapgitFlags.login.NoValidate)
		if err != nil {
			wrapFatalln("login", err)
			return
		}
		owner, _ := client.Owner()
		infoLogger.Printf("logged in as %s on %s", color.GreenString(owner), config.Backend)
	},
}

func init() {
	addNoValidateFlag(loginCmd)
	rootCmd.AddCommand(loginCmd)
}
