package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/oneconcern/snapgit/pkg/core"
	"github.com/oneconcern/snapgit/pkg/document"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := afero.ReadFile(projectFs, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var projectSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a project",
	Long: `Save a project as the new head of its repository. The repository is created on the first save.

The program and the media must be well-formed XML. Changes made to the project on the remote since
the base commit are merged into the saved files whenever possible.`,
	Example: `% snapgit project save --name demo --program demo.xml --notes NOTES.md --base 9a1c4e0b1f5d3ad1c2fbc52a2f00e4a77ce3f1c0
saved demo at 5e0e2f6a4b61d0f8a8b0c6f7d4a3e2c1b0a9f8e7`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		program, err := readOptional(snapgitFlags.project.Program)
		if err != nil {
			wrapFatalln("read program", err)
			return
		}
		media, err := readOptional(snapgitFlags.project.Media)
		if err != nil {
			wrapFatalln("read media", err)
			return
		}
		notes, err := readOptional(snapgitFlags.project.Notes)
		if err != nil {
			wrapFatalln("read notes", err)
			return
		}
		doc, err := document.NewProject(document.XMLSerializer{}, program, media, notes)
		if err != nil {
			wrapFatalln("invalid project", err)
			return
		}

		client, err := newClient(ctx, false, core.WithStaleHeadCheck(snapgitFlags.project.StaleCheck))
		if err != nil {
			wrapFatalln("login", err)
			return
		}
		result, err := client.SaveProject(ctx, core.SaveRequest{
			Name:       snapgitFlags.project.Name,
			Message:    snapgitFlags.project.Message,
			BaseCommit: snapgitFlags.project.BaseCommit,
			Document:   doc,
		})
		if err != nil {
			wrapFatalln("save project", err)
			return
		}

		for _, r := range result.Reconciled {
			msg := color.GreenString("merged")
			if r.Failed > 0 {
				msg = color.YellowString("merged with conflicts")
			}
			infoLogger.Printf("%s %s: %d applied, %d skipped, %d dropped", r.Path, msg, r.Applied, r.Skipped, r.Failed)
		}
		if result.Created {
			infoLogger.Printf("created project %s", result.Repo)
		}
		infoLogger.Printf("saved %s at %s", result.Repo, result.Final)
	},
}

func init() {
	requireFlags(projectSaveCmd,
		addProjectNameFlag(projectSaveCmd),
		addProgramFlag(projectSaveCmd),
	)
	addMediaFlag(projectSaveCmd)
	addNotesFlag(projectSaveCmd)
	addCommitMessageFlag(projectSaveCmd)
	addBaseCommitFlag(projectSaveCmd)
	addStaleCheckFlag(projectSaveCmd)
	projectCmd.AddCommand(projectSaveCmd)
}
