// Package github implements a remote repository service on the GitHub REST API (v3).
package github

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/oneconcern/snapgit/pkg/remote"
	"github.com/oneconcern/snapgit/pkg/remote/status"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// DefaultURL is the endpoint of the public GitHub API
	DefaultURL = "https://api.github.com"

	label     = "GitHub"
	mediaType = "application/vnd.github.v3+json"
	pageSize  = 100
)

var _ remote.Service = &Service{}

// Option configures the GitHub service
type Option func(*Service)

// WithURL sets the API endpoint, e.g. for GitHub Enterprise
func WithURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithToken authenticates all calls with an OAuth2 access token
func WithToken(token string) Option {
	return func(s *Service) {
		s.token = token
	}
}

// WithHTTPClient sets the underlying http client. When a token is set, the client is wrapped
// with an oauth2 transport.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger sets a logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.l = l
		}
	}
}

// Service talks to the GitHub API on behalf of the identity owning the token
type Service struct {
	baseURL string
	token   string
	client  *http.Client
	l       *zap.Logger
}

// New GitHub service
func New(opts ...Option) *Service {
	s := &Service{
		baseURL: DefaultURL,
		client:  http.DefaultClient,
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	if s.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.client)
		s.client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.token}))
	}
	return s
}

func (s *Service) String() string {
	return label
}

func repoPath(owner, repo string, parts ...string) string {
	elems := append([]string{"repos", url.PathEscape(owner), url.PathEscape(repo)}, parts...)
	return "/" + strings.Join(elems, "/")
}

// apiError is the body of GitHub error responses
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors"`
}

func (e apiError) String() string {
	msgs := make([]string, 0, len(e.Errors)+1)
	if e.Message != "" {
		msgs = append(msgs, e.Message)
	}
	for _, detail := range e.Errors {
		if detail.Message != "" {
			msgs = append(msgs, detail.Message)
		} else if detail.Code != "" {
			msgs = append(msgs, detail.Field+" "+detail.Code)
		}
	}
	return strings.Join(msgs, ": ")
}

// errConflict is nested in the errors of 409 responses, e.g. when the repository is empty
var errConflict = errors.New("conflict")

// do sends a request with an optional JSON body, and decodes the JSON response into out when not nil
func (s *Service) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := jsoniter.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", mediaType)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return status.ErrRemoteAPI.Wrap(err)
	}
	defer resp.Body.Close()

	s.l.Debug("github api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(method, path, resp)
	}
	if out == nil {
		_, _ = io.Copy(ioutil.Discard, resp.Body)
		return nil
	}
	if err := jsoniter.NewDecoder(resp.Body).Decode(out); err != nil {
		return status.ErrRemoteAPI.Wrap(fmt.Errorf("decoding response to %s %s: %w", method, path, err))
	}
	return nil
}

func responseError(method, path string, resp *http.Response) error {
	var apiErr apiError
	b, _ := ioutil.ReadAll(resp.Body)
	if len(b) > 0 {
		_ = jsoniter.Unmarshal(b, &apiErr)
	}
	msg := apiErr.String()
	if msg == "" {
		msg = resp.Status
	}
	cause := fmt.Errorf("%s %s: %s", method, path, msg)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return status.ErrUnauthorized.Wrap(cause)
	case http.StatusForbidden:
		return status.ErrForbidden.Wrap(cause)
	case http.StatusNotFound:
		return status.ErrNotFound.Wrap(cause)
	case http.StatusConflict:
		return status.ErrRemoteAPI.Wrap(errConflict.Wrap(cause))
	case http.StatusUnprocessableEntity:
		return status.ErrInvalidObject.Wrap(cause)
	default:
		return status.ErrRemoteAPI.Wrap(cause)
	}
}
