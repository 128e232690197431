package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// Build information, set by the linker with -X
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

// VersionInfo describes the build of this binary
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	BuildDate string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`
	GitState  string `json:"gitState,omitempty" yaml:"gitState,omitempty"`
}

// NewVersionInfo collects the build information. Binaries built without release flags report a "dev" version.
func NewVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GitState:  GitState,
	}
	if info.Version == "" {
		info.Version = "dev"
	} else if info.GitState == "" {
		info.GitState = "clean"
	}
	return info
}

func (v VersionInfo) String() string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return v.Version
	}
	return string(b)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of snapgit",
	Long: `Print the build information of snapgit:
  version:   the release tag, or "dev" for local builds
  buildDate: when the binary was built
  gitCommit: the commit the binary was built from
  gitState:  "dirty" when the working tree had uncommitted changes at build time
`,
	Run: func(cmd *cobra.Command, args []string) {
		infoLogger.Print(NewVersionInfo().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
