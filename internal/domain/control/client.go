package control

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/infrastructure/resilience"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

// DefaultTimeout bounds every loopback call. The control server lives on the
// same host, so anything slower than this is a wedged program.
const DefaultTimeout = 5 * time.Second

// Client talks to the active display program's loopback control server.
// It implements supervisor.LiveChannel.
type Client struct {
	http    *resty.Client
	breaker *resilience.Breaker
	log     *logging.Logger
}

// NewClient creates a loopback client bound to 127.0.0.1:port.
func NewClient(port int, timeout time.Duration, log *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 1
	retryClient.RetryWaitMin = 50 * time.Millisecond
	retryClient.RetryWaitMax = 250 * time.Millisecond
	retryClient.Logger = nil

	httpClient := resty.New().
		SetBaseURL(fmt.Sprintf("http://127.0.0.1:%d", port)).
		SetTimeout(timeout).
		SetHeader("User-Agent", "matrixd-control/1.0").
		SetTransport(retryClient.HTTPClient.Transport)
	httpClient.JSONMarshal = sonic.Marshal
	httpClient.JSONUnmarshal = sonic.Unmarshal

	breaker := resilience.New("loopback-control", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         2 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("Control channel breaker state change",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
		log:     log,
	}
}

// SetTheme switches the live program's color theme.
func (c *Client) SetTheme(ctx context.Context, theme string) error {
	return c.post(ctx, "/control/theme", types.ThemeRequest{Theme: theme})
}

// TriggerAnimation runs a transition on the live program immediately.
func (c *Client) TriggerAnimation(ctx context.Context, target string) error {
	return c.post(ctx, "/control/animation", types.AnimationRequest{Target: target})
}

// PushConfig applies a partial configuration update to the live program
// without a restart. Keys the program does not recognize are ignored there.
func (c *Client) PushConfig(ctx context.Context, cfg map[string]interface{}) error {
	return c.post(ctx, "/control/config", types.ConfigPushRequest{Config: cfg})
}

// Status fetches the live program's current state.
func (c *Client) Status(ctx context.Context) (*types.ControlStatus, error) {
	var status types.ControlStatus
	err := c.breaker.Execute(func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&status).
			Get("/control/status")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("control status: %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	return c.breaker.Execute(func() error {
		var reply types.ControlResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&reply).
			Post(path)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("control %s: %s", path, resp.Status())
		}
		if !reply.Success {
			return fmt.Errorf("control %s: %s", path, reply.Message)
		}
		return nil
	})
}
