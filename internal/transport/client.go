// Package transport implements the client for the emulator socket server
// that supplies working memory dumps and accepts button presses.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/time/rate"
)

// Button is a console button name as understood by the emulator server.
type Button string

// console buttons.
const (
	ButtonA      Button = "A"
	ButtonB      Button = "B"
	ButtonUp     Button = "U"
	ButtonDown   Button = "D"
	ButtonLeft   Button = "L"
	ButtonRight  Button = "R"
	ButtonStart  Button = "start"
	ButtonSelect Button = "select"
)

var buttons = map[Button]struct{}{
	ButtonA: {}, ButtonB: {}, ButtonUp: {}, ButtonDown: {},
	ButtonLeft: {}, ButtonRight: {}, ButtonStart: {}, ButtonSelect: {},
}

// ParseButton returns the button for the given name.
func ParseButton(name string) (Button, error) {
	b := Button(name)
	if _, ok := buttons[b]; !ok {
		return "", fmt.Errorf("unsupported button '%s'", name)
	}
	return b, nil
}

// server commands.
const (
	commandDumpWRAM = "dump_wram"
	commandClear    = "clear"
	buttonPrefix    = "B:"
)

// ErrClosed is returned for requests on a closed client.
var ErrClosed = errors.New("client closed")

// Client is a connection to the emulator socket server. Requests are
// serialized, a Client can be shared between goroutines.
type Client struct {
	logger *log.Logger
	addr   string
	opts   Options

	limiter *rate.Limiter
	dialer  net.Dialer

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// Dial connects to the emulator server at addr.
func Dial(ctx context.Context, logger *log.Logger, addr string, options ...Option) (*Client, error) {
	opts := NewOptions(options...)
	if logger == nil {
		logger = log.NewNop()
	}

	c := &Client{
		logger:  logger,
		addr:    addr,
		opts:    opts,
		limiter: rate.NewLimiter(opts.CommandRate, opts.CommandBurst),
	}
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect(ctx context.Context) error {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connecting to emulator at %s: %w", c.addr, err)
	}
	c.conn = conn
	c.logger.Debug("Connected to emulator", log.String("address", c.addr))
	return nil
}

// Reset drops the current connection and connects again.
func (c *Client) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	return c.connect(ctx)
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// DumpWRAM requests the working memory region. It returns exactly
// RegionSize bytes or an error, a partial dump is never returned.
func (c *Client) DumpWRAM(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(ctx, commandDumpWRAM); err != nil {
		return nil, err
	}

	buf := make([]byte, c.opts.RegionSize)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return nil, fmt.Errorf("reading %d byte memory dump: %w", c.opts.RegionSize, err)
	}
	return buf, nil
}

// Press holds the button for the configured hold duration and releases it.
func (c *Client) Press(ctx context.Context, button Button) error {
	if _, ok := buttons[button]; !ok {
		return fmt.Errorf("unsupported button '%s'", button)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(ctx, buttonPrefix+string(button)); err != nil {
		return err
	}

	timer := time.NewTimer(c.opts.HoldDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		// release the button even if the caller gave up
		_ = c.send(context.WithoutCancel(ctx), commandClear)
		return ctx.Err()
	case <-timer.C:
	}

	return c.send(ctx, commandClear)
}

// Send sends a raw command that has no response.
func (c *Client) Send(ctx context.Context, command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(ctx, command)
}

// send writes a command, the caller has to hold the lock. The context
// deadline is applied to the connection for the write and the following read.
func (c *Client) send(ctx context.Context, command string) error {
	if c.closed || c.conn == nil {
		return ErrClosed
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting to send '%s': %w", command, err)
	}

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("setting deadline: %w", err)
	}

	if _, err := io.WriteString(c.conn, command); err != nil {
		return fmt.Errorf("sending '%s': %w", command, err)
	}
	c.logger.Debug("Sent command", log.String("command", command))
	return nil
}
