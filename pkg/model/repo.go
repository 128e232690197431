package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultBranch is the branch advanced by saves
	DefaultBranch = "master"

	// DefaultMarker tags the description of repositories holding a project
	DefaultMarker = "Snap! Project"

	// DefaultSite is the URL of the application embedded in project descriptions
	DefaultSite = "http://gubolin.github.io/snap/index.html"

	// DefaultLicense is the license template used when initializing new repositories
	DefaultLicense = "mit"
)

var notProjectChar = regexp.MustCompile(`[^\w-]`)

// RepositoryRecord describes a remote repository owned by some identity
type RepositoryRecord struct {
	Owner         string    `json:"owner" yaml:"owner"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultBranch string    `json:"default_branch,omitempty" yaml:"default_branch,omitempty"`
	Created       time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated       time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// IsProject tells if the description of this repository carries the application marker
func (r RepositoryRecord) IsProject(marker string) bool {
	return strings.Contains(r.Description, marker)
}

// RepositoryRecords is a sortable collection of repository records
type RepositoryRecords []RepositoryRecord

func (r RepositoryRecords) Len() int           { return len(r) }
func (r RepositoryRecords) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r RepositoryRecords) Less(i, j int) bool { return r[i].Name < r[j].Name }

// CreateRepoFlags are the settings of a repository creation request
type CreateRepoFlags struct {
	HasWiki         bool   `json:"has_wiki" yaml:"has_wiki"`
	HasDownloads    bool   `json:"has_downloads" yaml:"has_downloads"`
	AutoInit        bool   `json:"auto_init" yaml:"auto_init"`
	LicenseTemplate string `json:"license_template,omitempty" yaml:"license_template,omitempty"`
}

// ProjectRepoFlags are the flags used to create project repositories.
//
// The repository is auto-initialized so that it has a first commit to build upon.
func ProjectRepoFlags() CreateRepoFlags {
	return CreateRepoFlags{
		AutoInit:        true,
		LicenseTemplate: DefaultLicense,
	}
}

// ProjectDescription renders the description of a project repository.
//
// The description embeds the marker used to recognize projects when listing repositories.
func ProjectDescription(marker, site, owner, project string) string {
	return fmt.Sprintf("%s - %s#github:Username=%s&projectName=%s", marker, site, owner, project)
}

// SanitizeProjectName removes from a project name all characters not allowed in a repository name
func SanitizeProjectName(name string) string {
	return notProjectChar.ReplaceAllString(name, "")
}

// ValidateRepoName checks that a repository name is not empty and only holds letters, digits, '_' or '-'
func ValidateRepoName(name string) error {
	if name == "" {
		return fmt.Errorf("empty field: repo name is empty")
	}
	for _, c := range name {
		if !unicode.IsDigit(c) && !unicode.IsLetter(c) && c != '-' && c != '_' {
			return fmt.Errorf("invalid name: repo name:%s contains unsupported character %q", name, c)
		}
	}
	return nil
}

// GetArchivePathToRepoRecord is the storage key of a repository record
func GetArchivePathToRepoRecord(owner, repo string) string {
	return fmt.Sprint(GetArchivePathPrefixToRepos(owner), repo, "/", "repo.yaml")
}

// GetArchivePathPrefixToRepos is the storage key prefix of all repositories owned by some identity
func GetArchivePathPrefixToRepos(owner string) string {
	return fmt.Sprint("repos/", owner, "/")
}
