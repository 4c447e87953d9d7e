package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/logging"
	"desknotify/internal/notify"
)

// Client is a notify.Backend that forwards to a relay server. It dials
// once per notification, which keeps it free of reconnect logic.
type Client struct {
	url   string
	token string
	log   *zerolog.Logger
}

func NewClient(s config.RelayClient) *Client {
	return &Client{url: s.URL, token: s.Token, log: logging.For("relay")}
}

// Register adds the relay client backend to r.
func Register(r *notify.Registry, s config.RelayClient) {
	r.Register("relay", func() (notify.Backend, error) { return NewClient(s), nil })
}

func (*Client) Name() string      { return "relay" }
func (*Client) Priority() int     { return 95 }
func (c *Client) Available() bool { return c.url != "" }
func (*Client) RawIcons() bool    { return true }

// WebSocketURL maps an http(s) or ws(s) base URL to the server's /ws
// endpoint.
func WebSocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid relay url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid relay url %q: unsupported scheme", base)
	}
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	}
	return u.String(), nil
}

func (c *Client) fail(err error) (notify.Result, error) {
	err = &notify.BackendError{Backend: "relay", Err: err}
	return notify.Result{Outcome: notify.OutcomeFailed, Backend: "relay", Error: err.Error()}, err
}

// Send delivers n through the relay and waits for the remote result. When
// the remote user picks an action, the result carries it.
func (c *Client) Send(ctx context.Context, n notify.Notification) (notify.Result, error) {
	if !c.Available() {
		return c.fail(notify.ErrBackendUnavailable)
	}
	wsURL, err := WebSocketURL(c.url)
	if err != nil {
		return c.fail(err)
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return c.fail(errors.New("relay rejected token"))
		}
		return c.fail(fmt.Errorf("dial relay: %w", err))
	}
	defer conn.Close()

	// Unblock the read below when the caller gives up.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	req := Request{Type: TypeNotify, ID: uuid.NewString(), Notification: n}
	if err := conn.WriteJSON(req); err != nil {
		return c.fail(fmt.Errorf("write request: %w", err))
	}
	c.log.Debug().Str("id", req.ID).Str("url", wsURL).Msg("forwarded notification")

	for {
		var msg Response
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return c.fail(ctx.Err())
			}
			return c.fail(fmt.Errorf("read response: %w", err))
		}
		if msg.ID != req.ID {
			continue
		}
		switch msg.Type {
		case TypeError:
			return c.fail(errors.New(msg.Message))
		case TypeResult:
			if msg.Result == nil {
				return c.fail(errors.New("empty result"))
			}
			res := *msg.Result
			res.Backend = "relay/" + res.Backend
			if !res.Success {
				return res, &notify.BackendError{Backend: res.Backend, Err: errors.New(res.Error)}
			}
			return res, nil
		}
	}
}

func (c *Client) Info() notify.BackendInfo {
	return notify.BackendInfo{
		Name:        "relay",
		Priority:    c.Priority(),
		Available:   c.Available(),
		Description: "Forward notifications to a desktop running `relay serve`",
		Features: []string{
			notify.FeatureRemote, notify.FeatureActions, notify.FeatureIcons,
			notify.FeatureUrgency, notify.FeatureTimeout,
		},
		Urgencies: notify.Urgencies,
		Extra:     map[string]string{"url": c.url, "auth": fmt.Sprint(c.token != "")},
	}
}

