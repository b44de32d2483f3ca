// the client package is the fulboost API facade used by UI code and the fulboost CLI.
// Every method maps one domain operation (login, posts, games, challenges) to one HTTP request.
// The client attaches the session's bearer token, unwraps the `data` envelope of successful responses
// and turns every failure into a *ClientError (see errors.go).
// Requests and responses are logged via logger.RequestLogging.
package client

import (
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/fulboost/fulboost-client/internal/logger"
	"github.com/fulboost/fulboost-client/internal/session"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultLoginRoute = "/login"
)

// Navigator moves the user to another route of the application.
// It is called with the login route when the server rejects the session.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

// Options configures a Client. Only APIBaseURL is required.
type Options struct {
	// APIBaseURL is the base address of the REST API, e.g. https://api.fulboost.fun/api
	APIBaseURL string

	// BackendURL is the host root used by the post endpoints, which are routed outside the API base path.
	// Defaults to the scheme and host of APIBaseURL.
	BackendURL string

	Timeout    time.Duration
	LoginRoute string
	Session    *session.Session
	Navigator  Navigator
	Logger     *slog.Logger

	// Transport is wrapped by the request logger; defaults to http.DefaultTransport
	Transport http.RoundTripper
}

// Client handles communication with the fulboost API
type Client struct {
	apiBaseURL string
	backendURL string
	loginRoute string
	httpClient *http.Client
	session    *session.Session
	navigator  Navigator
	logger     *slog.Logger
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.LoginRoute == "" {
		opts.LoginRoute = DefaultLoginRoute
	}
	if opts.Session == nil {
		opts.Session = session.NewInMemory()
	}
	if opts.Navigator == nil {
		opts.Navigator = noopNavigator{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.BackendURL == "" {
		opts.BackendURL = hostRoot(opts.APIBaseURL)
	}

	// cookies set by the API are sent back on later requests
	jar, _ := cookiejar.New(nil)

	return &Client{
		apiBaseURL: strings.TrimRight(opts.APIBaseURL, "/"),
		backendURL: strings.TrimRight(opts.BackendURL, "/"),
		loginRoute: opts.LoginRoute,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       jar,
			Transport: logger.RequestLogging(opts.Logger)(opts.Transport),
		},
		session:   opts.Session,
		navigator: opts.Navigator,
		logger:    opts.Logger,
	}
}

// Session returns the session the client authenticates with
func (c *Client) Session() *session.Session {
	return c.session
}

func hostRoot(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}
