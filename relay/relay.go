// Package relay is a test client for the backend's ConversationRelay
// websocket.
//
// It plays the Twilio side of the session: it sends the setup and prompt
// messages Twilio would send for a live call and collects the text tokens
// the assistant answers with, so the saved personality can be tried
// without dialing a phone.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrSessionEnded is returned when the assistant ends the session.
var ErrSessionEnded = errors.New("relay: session ended by assistant")

// Message types of the ConversationRelay protocol.
const (
	TypeSetup     = "setup"
	TypePrompt    = "prompt"
	TypeInterrupt = "interrupt"
	TypeText      = "text"
	TypeEnd       = "end"
)

// message is the union of the messages exchanged on the socket.
type message struct {
	Type                    string `json:"type"`
	SessionID               string `json:"sessionId,omitempty"`
	CallSID                 string `json:"callSid,omitempty"`
	From                    string `json:"from,omitempty"`
	To                      string `json:"to,omitempty"`
	Direction               string `json:"direction,omitempty"`
	VoicePrompt             string `json:"voicePrompt,omitempty"`
	Lang                    string `json:"lang,omitempty"`
	Token                   string `json:"token,omitempty"`
	Last                    bool   `json:"last,omitempty"`
	UtteranceUntilInterrupt string `json:"utteranceUntilInterrupt,omitempty"`
	DurationUntilInterrupt  int    `json:"durationUntilInterruptMs,omitempty"`
	HandoffData             string `json:"handoffData,omitempty"`
}

// Client is an open relay session.
type Client struct {
	conn *websocket.Conn
	lang string

	wmu       sync.Mutex
	closeOnce sync.Once
}

// Option configures Dial.
type Option func(*options)

type options struct {
	header  http.Header
	dialer  *websocket.Dialer
	lang    string
	timeout time.Duration
}

// WithHeader adds headers to the websocket handshake.
func WithHeader(h http.Header) Option {
	return func(o *options) {
		o.header = h
	}
}

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

// WithLanguage sets the language reported with each prompt.
func WithLanguage(lang string) Option {
	return func(o *options) {
		o.lang = lang
	}
}

// WithHandshakeTimeout bounds the opening handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Dial opens a session against url, a ws:// or wss:// endpoint.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	cfg := &options{
		lang:    "en-US",
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		return nil, fmt.Errorf("relay url must be ws or wss: %s", url)
	}

	dialer := cfg.dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.timeout,
		}
	}

	conn, resp, err := dialer.DialContext(ctx, url, cfg.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (%s): %w", resp.Status, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	return &Client{conn: conn, lang: cfg.lang}, nil
}

// Setup starts the session the way Twilio does when a call connects.
func (c *Client) Setup(callSID, from, to string) error {
	return c.write(message{
		Type:      TypeSetup,
		SessionID: "VX" + strings.TrimPrefix(callSID, "CA"),
		CallSID:   callSID,
		From:      from,
		To:        to,
		Direction: "outbound-api",
	})
}

// Prompt sends a caller utterance and returns the assistant's full reply.
func (c *Client) Prompt(ctx context.Context, text string) (string, error) {
	if err := c.write(message{Type: TypePrompt, VoicePrompt: text, Lang: c.lang, Last: true}); err != nil {
		return "", err
	}

	stop := c.watch(ctx)
	defer stop()

	var reply strings.Builder
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if cerr := contextErr(ctx); cerr != nil {
				return reply.String(), cerr
			}
			return reply.String(), fmt.Errorf("read reply: %w", err)
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case TypeText:
			reply.WriteString(msg.Token)
			if msg.Last {
				return reply.String(), nil
			}
		case TypeEnd:
			return reply.String(), ErrSessionEnded
		}
	}
}

// Interrupt tells the assistant the caller spoke over it after hearing
// utterance.
func (c *Client) Interrupt(utterance string, after time.Duration) error {
	return c.write(message{
		Type:                    TypeInterrupt,
		UtteranceUntilInterrupt: utterance,
		DurationUntilInterrupt:  int(after.Milliseconds()),
	})
}

// Close ends the session.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.wmu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.wmu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) write(msg message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s: %w", msg.Type, err)
	}
	return nil
}

// watch applies ctx to the blocking read. The returned func must be called
// once the read is done.
func (c *Client) watch(ctx context.Context) func() {
	return watchDeadline(ctx, c.conn.SetReadDeadline)
}

// watchDeadline sets the read deadline through set when ctx ends. The
// returned func clears the deadline only after the watcher has exited, so
// no deadline set for ctx outlives it.
func watchDeadline(ctx context.Context, set func(time.Time) error) func() {
	if dl, ok := ctx.Deadline(); ok {
		_ = set(dl)
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			_ = set(time.Now())
		case <-done:
		}
	}()

	return func() {
		close(done)
		<-exited
		_ = set(time.Time{})
	}
}

// contextErr reports ctx's error, treating a passed deadline as expired
// even if the context timer has not fired yet.
func contextErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return context.DeadlineExceeded
	}
	return nil
}
