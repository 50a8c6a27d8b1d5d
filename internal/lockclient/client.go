// Package lockclient is the agent that runs on each bookable computer. It
// polls the server and unlocks the machine for the booking that holds it.
package lockclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"computer-booking/internal/dto/response"
	"computer-booking/pkg/middleware"
	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	DefaultInterval = 10 * time.Second
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type Config struct {
	ServerURL  string
	ComputerID string
	APIKey     string
	Interval   time.Duration
}

// Actuator performs the OS-level lock and unlock.
type Actuator interface {
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
}

// state is owned by the goroutine running Run.
type state struct {
	currentBooking *response.CheckUnlockBooking
	locked         bool
}

type Client struct {
	config   Config
	http     *http.Client
	actuator Actuator
	log      *zap.Logger
	state    state
}

func New(config Config, actuator Actuator, log *zap.Logger) *Client {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	config.ServerURL = strings.TrimRight(config.ServerURL, "/")

	return &Client{
		config:   config,
		http:     &http.Client{Timeout: requestTimeout},
		actuator: actuator,
		log:      log.With(zap.String("computer_id", config.ComputerID)),
		state:    state{locked: true},
	}
}

// Locked reports whether the client believes the machine is locked.
func (c *Client) Locked() bool {
	return c.state.locked
}

// Run polls until ctx is cancelled, then locks the machine if it is unlocked.
func (c *Client) Run(ctx context.Context) error {
	c.log.Info("Monitoring started",
		zap.String("server", c.config.ServerURL),
		zap.Duration("interval", c.config.Interval),
	)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	c.pollAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return c.shutdown()
		case <-ticker.C:
			c.pollAndLog(ctx)
		}
	}
}

func (c *Client) pollAndLog(ctx context.Context) {
	if err := c.Poll(ctx); err != nil && ctx.Err() == nil {
		c.log.Warn("Poll failed", zap.Error(err))
	}
}

// Poll performs one check-unlock round trip and acts on the answer.
func (c *Client) Poll(ctx context.Context) error {
	var resp response.CheckUnlockResponse
	if err := c.post(ctx, "/api/client/check-unlock", map[string]string{
		"computer_id": c.config.ComputerID,
	}, &resp); err != nil {
		return fmt.Errorf("check unlock: %w", err)
	}

	if resp.ShouldUnlock && resp.Booking != nil {
		if c.state.currentBooking != nil && c.state.currentBooking.ID == resp.Booking.ID {
			return nil
		}
		c.log.Info("New booking detected",
			zap.String("booking_id", resp.Booking.ID),
			zap.String("user", resp.Booking.User),
			zap.Time("start_time", resp.Booking.StartTime),
			zap.Time("end_time", resp.Booking.EndTime),
		)
		if err := c.unlock(ctx, resp.Booking.UnlockCode); err != nil {
			return err
		}
		c.state.currentBooking = resp.Booking
		return nil
	}

	// No booking holds the machine: keep locking until the actuator succeeds.
	if c.state.currentBooking == nil && c.state.locked {
		return nil
	}
	if c.state.currentBooking != nil {
		c.log.Info("Booking time ended", zap.String("booking_id", c.state.currentBooking.ID))
	}
	if err := c.lock(ctx); err != nil {
		return err
	}
	c.state.currentBooking = nil
	return nil
}

func (c *Client) unlock(ctx context.Context, code string) error {
	var resp response.UnlockResponse
	if err := c.post(ctx, "/api/client/unlock", map[string]string{
		"computer_id": c.config.ComputerID,
		"unlock_code": code,
	}, &resp); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}

	if err := c.actuator.Unlock(ctx); err != nil {
		return fmt.Errorf("unlock machine: %w", err)
	}
	c.state.locked = false

	c.log.Info("Computer unlocked", zap.Time("session_end", resp.EndTime))
	return nil
}

func (c *Client) lock(ctx context.Context) error {
	var resp response.LockResponse
	if err := c.post(ctx, "/api/client/lock", map[string]string{
		"computer_id": c.config.ComputerID,
	}, &resp); err != nil {
		c.log.Warn("Server lock failed, locking machine anyway", zap.Error(err))
	}

	if err := c.actuator.Lock(ctx); err != nil {
		return fmt.Errorf("lock machine: %w", err)
	}
	c.state.locked = true

	c.log.Info("Computer locked", zap.Int64("completed", resp.Completed))
	return nil
}

func (c *Client) shutdown() error {
	if c.state.locked {
		c.log.Info("Shutting down")
		return nil
	}

	c.log.Info("Locking computer before exit")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	c.state.currentBooking = nil
	return c.lock(ctx)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.ServerURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set(middleware.ClientKeyHeader, c.config.APIKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var errBody utils.ErrorBody
		if err := json.NewDecoder(res.Body).Decode(&errBody); err != nil || errBody.Error == "" {
			return fmt.Errorf("server returned %s", res.Status)
		}
		return &ServerError{Status: res.StatusCode, Code: errBody.Code, Message: errBody.Error}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// ServerError is a non-2xx answer carrying the server's error body.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// IsServerError reports whether err is a ServerError with the given code.
func IsServerError(err error, code string) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Code == code
}
