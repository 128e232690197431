package cmd

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/spf13/cobra"
)

// summary is the first non-empty line of the notes of a project
func summary(notes string) string {
	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return ""
}

func printListing(listing model.ProjectListing) {
	updated := ""
	if !listing.Updated.IsZero() {
		updated = humanize.Time(listing.Updated)
	}
	infoLogger.Printf("%s\t%s\t%s", listing.Name, color.HiBlackString(updated), summary(listing.Notes))
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List projects",
	Long:    "List the projects of the logged in identity, with a summary of their notes",
	Aliases: []string{"ls"},
	Example: `% snapgit project list
demo	2 hours ago	A demo project
pong	3 days ago	Pong, with two players`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := newClient(ctx, false)
		if err != nil {
			wrapFatalln("login", err)
			return
		}
		projects, err := client.ListProjects(ctx)
		if err != nil {
			wrapFatalln("list projects", err)
			return
		}
		for _, listing := range projects {
			printListing(listing)
		}
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd)
}
