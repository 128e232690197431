package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var projectGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get the program of a project",
	Long: `Get the program of a project, at the head of its repository.

The commit the program was read at is printed on stderr, to be passed along with the next save (see --base).`,
	Example: `% snapgit project get --name demo --output demo.xml
commit: 9a1c4e0b1f5d3ad1c2fbc52a2f00e4a77ce3f1c0`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := newClient(ctx, false)
		if err != nil {
			wrapFatalln("login", err)
			return
		}
		project, err := client.GetProject(ctx, snapgitFlags.project.Owner, snapgitFlags.project.Name)
		if err != nil {
			wrapFatalln("get project", err)
			return
		}

		if snapgitFlags.project.Output == "" {
			infoLogger.Print(project.Program)
		} else if err = afero.WriteFile(projectFs, snapgitFlags.project.Output, []byte(project.Program), 0o644); err != nil {
			wrapFatalln("write program", err)
			return
		}
		cmd.PrintErrln("commit: " + project.Commit)
	},
}

func init() {
	requireFlags(projectGetCmd,
		addProjectNameFlag(projectGetCmd),
	)
	addProjectOwnerFlag(projectGetCmd)
	addOutputFlag(projectGetCmd)
	projectCmd.AddCommand(projectGetCmd)
}
