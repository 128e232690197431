package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// keep names of fields the same as the serialized names
	Backend     string       `json:"backend" yaml:"backend" mapstructure:"backend"`
	Owner       string       `json:"owner" yaml:"owner" mapstructure:"owner"`
	Token       string       `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`
	Marker      string       `json:"marker,omitempty" yaml:"marker,omitempty" mapstructure:"marker"`
	Site        string       `json:"site,omitempty" yaml:"site,omitempty" mapstructure:"site"`
	LogLevel    string       `json:"loglevel" yaml:"loglevel" mapstructure:"loglevel"`
	Concurrency int          `json:"concurrency,omitempty" yaml:"concurrency,omitempty" mapstructure:"concurrency"`
	Metrics     bool         `json:"metrics,omitempty" yaml:"metrics,omitempty" mapstructure:"metrics"`
	Local       LocalConfig  `json:"local" yaml:"local" mapstructure:"local"`
	GitHub      GitHubConfig `json:"github" yaml:"github" mapstructure:"github"`
}

// LocalConfig configures the local git backend
type LocalConfig struct {
	Root string `json:"root" yaml:"root" mapstructure:"root"`
}

// GitHubConfig configures the GitHub backend
type GitHubConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// masked returns a copy of the configuration safe to display
func (c CLIConfig) masked() CLIConfig {
	if c.Token != "" {
		c.Token = "********"
	}
	return c
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the config file",
	Long: `Commands to manage the snapgit configuration.

The configuration is read from a snapgit.yaml file, in the current folder, in $HOME/.snapgit or in /etc/snapgit.
Another file may be specified with the SNAPGIT_CONFIG environment variable.

Every setting may be overridden by an environment variable prefixed with SNAPGIT_ (e.g. SNAPGIT_TOKEN, SNAPGIT_LOCAL_ROOT),
or by a flag.
`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long:  "Show the configuration resolved from the config file, the environment and flags. The token is masked.",
	Example: `% snapgit config show --backend github
backend: github
owner: alice
token: '********'
...`,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := yaml.Marshal(config.masked())
		if err != nil {
			wrapFatalln("serialize configuration", err)
			return
		}
		infoLogger.Print(string(b))
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
