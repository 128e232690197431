package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// projectFs reads and writes the local files of projects
var projectFs = afero.NewOsFs()

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Commands to manage projects",
	Long: `Commands to manage Snap! projects.

A project is a repository tagged as such in its description, holding the program in snap.xml and the notes in README.md.
`,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}
