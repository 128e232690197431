// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snapgit",
	Short: "snapgit saves Snap! projects to git repositories",
	Long: `snapgit saves Snap! projects to git repositories.

Each project lives in its own repository: the program is kept in snap.xml and the notes of the project in README.md.
Projects may be saved concurrently from several places: changes found on the remote since a project was retrieved
are merged into the saved content whenever possible.

Repositories are hosted either on GitHub, or locally in bare git repositories.
`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if config != nil && config.Metrics {
			printMetrics(os.Stderr)
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addBackendFlag(rootCmd)
	addOwnerFlag(rootCmd)
	addTokenFlag(rootCmd)
	addLocalRootFlag(rootCmd)
	addGitHubURLFlag(rootCmd)
	addMarkerFlag(rootCmd)
	addSiteFlag(rootCmd)
	addLogLevel(rootCmd)
	addConcurrencyFlag(rootCmd)
	addMetricsFlag(rootCmd)
}

func defaultLocalRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snapgit"
	}
	return filepath.Join(home, ".snapgit", "data")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault(backendKey, backendLocal)
	viper.SetDefault(localRootKey, defaultLocalRoot())
	if os.Getenv("SNAPGIT_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("SNAPGIT_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.snapgit")
		viper.AddConfigPath("/etc/snapgit")
		viper.SetConfigName("snapgit")
	}

	viper.SetEnvPrefix("snapgit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}

	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
	}
}
