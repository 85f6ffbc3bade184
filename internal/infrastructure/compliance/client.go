package compliance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/core/progress"
	"github.com/kirillkom/framework-progress/internal/infrastructure/resilience"
)

const maxResponseBytes = 4 << 20

// Client reads raw progress payloads from the compliance backend REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Token              string
	Timeout            time.Duration
	HTTPClient         *http.Client
	ResilienceExecutor *resilience.Executor
}

func New(baseURL string, options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		timeout := options.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(options.Token),
		httpClient: httpClient,
		executor:   options.ResilienceExecutor,
	}
}

// Fetch returns the raw body of GET {baseURL}{route}.
func (c *Client) Fetch(ctx context.Context, route string) ([]byte, error) {
	var body []byte
	call := func(callCtx context.Context) error {
		raw, err := c.get(callCtx, route)
		if err != nil {
			return err
		}
		body = raw
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, breakerName(route), call, classifyComplianceError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapFetchError("fetch "+route, err)
	}
	return body, nil
}

func (c *Client) ProjectFrameworks(ctx context.Context, projectID int) ([]domain.FrameworkInstance, error) {
	raw, err := c.Fetch(ctx, fmt.Sprintf("/projects/%d", projectID))
	if err != nil {
		return nil, err
	}
	return progress.ParseProjectFrameworks(raw)
}

// breakerName groups routes by their first path segment so that one failing
// framework family does not open the circuit for the others.
func breakerName(route string) string {
	segment := strings.TrimPrefix(route, "/")
	if i := strings.Index(segment, "/"); i >= 0 {
		segment = segment[:i]
	}
	if segment == "" {
		segment = "root"
	}
	return "compliance." + segment
}
