package baidu

import (
	"commute-planner/internal/domain"
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const DefaultHost = "https://api.map.baidu.com"

// Options configure a Client. Clock fixes the routing timestamp when set.
type Options struct {
	Host      string
	APIKey    string
	SecretKey string
	Timeout   time.Duration
	Clock     func() time.Time
	Logger    logrus.FieldLogger
}

// Client implements Geocoder and RouteProvider against the Baidu map API.
//
// Every request is a single synchronous GET bounded by Options.Timeout.
// There is no caching and no retry. The client is safe for concurrent use.
type Client struct {
	http   *resty.Client
	signer *Signer
	apiKey string
	host   string
	log    logrus.FieldLogger
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("baidu api key is empty")
	}
	if opts.SecretKey == "" {
		return nil, errors.New("baidu secret key is empty")
	}

	host := opts.Host
	if host == "" {
		host = DefaultHost
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger)

	return &Client{
		http:   httpClient,
		signer: NewSigner(host, opts.SecretKey, opts.Clock),
		apiKey: opts.APIKey,
		host:   host,
		log:    logger,
	}, nil
}

// get fetches a signed URL and returns the raw body.
// Network errors, timeouts and HTTP >= 400 all wrap ErrTransportFailure.
func (c *Client) get(ctx context.Context, signedURL string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(signedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}

	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, &httpStatusError{
			Code: resp.StatusCode(),
			Body: strings.TrimSpace(resp.String()),
		})
	}

	return resp.Body(), nil
}

// CheckHost resolves the configured API host so an unreachable host is
// reported before any signed request is issued.
func (c *Client) CheckHost(ctx context.Context) error {
	u, err := url.Parse(c.host)
	if err != nil {
		return fmt.Errorf("check host: parse %q: %w", c.host, err)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("check host: %q has no hostname", c.host)
	}

	if _, err := net.DefaultResolver.LookupHost(ctx, hostname); err != nil {
		return fmt.Errorf("check host: resolve %q: %w", hostname, err)
	}

	return nil
}
