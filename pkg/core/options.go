package core

import (
	"runtime"

	"github.com/oneconcern/snapgit/pkg/model"
	"go.uber.org/zap"
)

// Option sets options for the core client
type Option func(*Settings)

// Settings defines various settings for core features
type Settings struct {
	l              *zap.Logger
	marker         string
	site           string
	message        string
	concurrency    int
	staleHeadCheck bool
}

var (
	defaultConcurrency = 2 * runtime.NumCPU()
)

func defaultSettings() Settings {
	return Settings{
		l:           zap.NewNop(),
		marker:      model.DefaultMarker,
		site:        model.DefaultSite,
		message:     model.DefaultCommitMessage,
		concurrency: defaultConcurrency,
	}
}

// WithLogger sets a logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.l = l
		}
	}
}

// WithMarker sets the marker found in the description of project repositories
func WithMarker(marker string) Option {
	return func(s *Settings) {
		if marker != "" {
			s.marker = marker
		}
	}
}

// WithSite sets the URL of the application, advertised in the description of new project repositories
func WithSite(site string) Option {
	return func(s *Settings) {
		if site != "" {
			s.site = site
		}
	}
}

// WithCommitMessage sets the message used for saves without a message. It defaults to "Meow!"
func WithCommitMessage(message string) Option {
	return func(s *Settings) {
		if message != "" {
			s.message = message
		}
	}
}

// WithConcurrency sets the max level of concurrency of remote calls. It defaults to 2 x #cpus.
func WithConcurrency(concurrency int) Option {
	return func(s *Settings) {
		if concurrency <= 0 {
			s.concurrency = defaultConcurrency
			return
		}
		s.concurrency = concurrency
	}
}

// WithStaleHeadCheck verifies that the branch did not move while saving, before updating it.
//
// The check and the update are not atomic: this narrows the window for lost updates
// without closing it.
func WithStaleHeadCheck(enabled bool) Option {
	return func(s *Settings) {
		s.staleHeadCheck = enabled
	}
}
