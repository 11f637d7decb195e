// Package notify tells running preview instances that a graph asset was
// recompiled, over a socket.io connection.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is emitted when no event name is configured.
const DefaultEvent = "asset_reloaded"

// ConnectTimeout bounds how long Dial waits for the handshake.
var ConnectTimeout = 15 * time.Second

// Options configures Dial.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// Reload is the payload of a reload notification.
type Reload struct {
	Asset       string `json:"asset"`
	Expressions int    `json:"expressions"`
	Artifacts   int    `json:"artifacts"`
	At          int64  `json:"at"`
}

// Notifier emits reload events. It is safe to use from the compiler's
// goroutine only.
type Notifier struct {
	event string
	emit  func(event string, payload any)
	close func()
}

// Dial connects to the socket.io server and waits for the connection.
func Dial(ctx context.Context, opts Options) (*Notifier, error) {
	logger := ctxlog.FromContext(ctx).With("url", opts.URL, "namespace", opts.Namespace)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must be absolute", opts.URL)
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host), sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to reload server.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	logger.Debug("Connecting to reload server.")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", ConnectTimeout)
	}

	return newNotifier(opts.Event, func(event string, payload any) {
		io.Emit(event, payload)
	}, func() {
		io.Disconnect()
	}), nil
}

func newNotifier(event string, emit func(string, any), closeFn func()) *Notifier {
	if event == "" {
		event = DefaultEvent
	}
	return &Notifier{event: event, emit: emit, close: closeFn}
}

// AssetReloaded emits a reload event for the asset.
func (n *Notifier) AssetReloaded(ctx context.Context, asset string, expressions, artifacts int) {
	r := Reload{Asset: asset, Expressions: expressions, Artifacts: artifacts, At: time.Now().UnixMilli()}
	ctxlog.FromContext(ctx).Debug("Emitting reload notification.", "event", n.event, "asset", asset)
	n.emit(n.event, r)
}

// Close disconnects from the server.
func (n *Notifier) Close() {
	if n.close != nil {
		n.close()
	}
}
