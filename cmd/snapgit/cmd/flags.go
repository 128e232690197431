// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configuration keys, shared by flags, environment and config file
const (
	backendKey     = "backend"
	ownerKey       = "owner"
	tokenKey       = "token"
	localRootKey   = "local.root"
	githubURLKey   = "github.url"
	markerKey      = "marker"
	siteKey        = "site"
	logLevelKey    = "loglevel"
	concurrencyKey = "concurrency"
	metricsKey     = "metrics"
)

const (
	backendLocal  = "local"
	backendGitHub = "github"
)

type flagsT struct {
	project struct {
		Name       string
		Owner      string
		Message    string
		BaseCommit string
		Program    string
		Media      string
		Notes      string
		Output     string
		StaleCheck bool
	}
	login struct {
		NoValidate bool
	}
}

var snapgitFlags = flagsT{}

// bindPersistent registers a persistent flag as the source of a configuration key
func bindPersistent(cmd *cobra.Command, name, key string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(name)); err != nil {
		wrapFatalln("bind flag "+name, err)
	}
}

func addBackendFlag(cmd *cobra.Command) string {
	backend := "backend"
	cmd.PersistentFlags().String(backend, backendLocal, `The service hosting the repositories of projects: "local" or "github"`)
	bindPersistent(cmd, backend, backendKey)
	return backend
}

func addOwnerFlag(cmd *cobra.Command) string {
	owner := "identity"
	cmd.PersistentFlags().String(owner, "", "The identity owning the projects (the login of the GitHub account, or any name for local repositories)")
	bindPersistent(cmd, owner, ownerKey)
	return owner
}

func addTokenFlag(cmd *cobra.Command) string {
	token := "token"
	cmd.PersistentFlags().String(token, "", "The personal access token of the GitHub account (prefer the SNAPGIT_TOKEN environment variable)")
	bindPersistent(cmd, token, tokenKey)
	return token
}

func addLocalRootFlag(cmd *cobra.Command) string {
	root := "local-root"
	cmd.PersistentFlags().String(root, "", "The folder holding local repositories (defaults to $HOME/.snapgit/data)")
	bindPersistent(cmd, root, localRootKey)
	return root
}

func addGitHubURLFlag(cmd *cobra.Command) string {
	u := "github-url"
	cmd.PersistentFlags().String(u, "", "The base URL of the GitHub API (defaults to https://api.github.com)")
	bindPersistent(cmd, u, githubURLKey)
	return u
}

func addMarkerFlag(cmd *cobra.Command) string {
	marker := "marker"
	cmd.PersistentFlags().String(marker, "", "The description tag recognizing repositories as projects")
	bindPersistent(cmd, marker, markerKey)
	return marker
}

func addSiteFlag(cmd *cobra.Command) string {
	site := "site"
	cmd.PersistentFlags().String(site, "", "The site advertised in the description of new project repositories")
	bindPersistent(cmd, site, siteKey)
	return site
}

func addLogLevel(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().String(logLevel, "warn", "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	bindPersistent(cmd, logLevel, logLevelKey)
	return logLevel
}

func addConcurrencyFlag(cmd *cobra.Command) string {
	concurrency := "concurrency"
	cmd.PersistentFlags().Int(concurrency, 0,
		"Maximum number of concurrent calls to the remote service (defaults to twice the number of CPUs)")
	bindPersistent(cmd, concurrency, concurrencyKey)
	return concurrency
}

func addMetricsFlag(cmd *cobra.Command) string {
	metrics := "metrics"
	cmd.PersistentFlags().Bool(metrics, false, "Print statistics about remote calls on exit")
	bindPersistent(cmd, metrics, metricsKey)
	return metrics
}

func addProjectNameFlag(cmd *cobra.Command) string {
	name := "name"
	cmd.Flags().StringVar(&snapgitFlags.project.Name, name, "", "The name of the project")
	return name
}

func addProjectOwnerFlag(cmd *cobra.Command) string {
	owner := "owner"
	cmd.Flags().StringVar(&snapgitFlags.project.Owner, owner, "", "The owner of the project (defaults to the logged in identity)")
	return owner
}

func addCommitMessageFlag(cmd *cobra.Command) string {
	message := "message"
	cmd.Flags().StringVar(&snapgitFlags.project.Message, message, "", "The message describing the save")
	return message
}

func addBaseCommitFlag(cmd *cobra.Command) string {
	base := "base"
	cmd.Flags().StringVar(&snapgitFlags.project.BaseCommit, base, "",
		"The commit the saved project was retrieved at. Changes made on the remote since this commit are merged. Defaults to the current head")
	return base
}

func addProgramFlag(cmd *cobra.Command) string {
	program := "program"
	cmd.Flags().StringVar(&snapgitFlags.project.Program, program, "", "The file holding the serialized program of the project")
	return program
}

func addMediaFlag(cmd *cobra.Command) string {
	media := "media"
	cmd.Flags().StringVar(&snapgitFlags.project.Media, media, "", "The file holding the serialized media of the project")
	return media
}

func addNotesFlag(cmd *cobra.Command) string {
	notes := "notes"
	cmd.Flags().StringVar(&snapgitFlags.project.Notes, notes, "", "The file holding the notes of the project")
	return notes
}

func addOutputFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVar(&snapgitFlags.project.Output, output, "", "The file to write the program to (defaults to stdout)")
	return output
}

func addStaleCheckFlag(cmd *cobra.Command) string {
	stale := "stale-check"
	cmd.Flags().BoolVar(&snapgitFlags.project.StaleCheck, stale, false,
		"Refuse to move the head of the project when another save moved it in the meantime")
	return stale
}

func addNoValidateFlag(cmd *cobra.Command) string {
	noValidate := "no-validate"
	cmd.Flags().BoolVar(&snapgitFlags.login.NoValidate, noValidate, false, "Skip checking the credentials against the remote service")
	return noValidate
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			wrapFatalln("mark required flag "+flag, err)
		}
	}
}
