package control

import (
	"context"
	"io"
	"net"

	"github.com/sourcegraph/jsonrpc2"

	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/store/storedefs"
)

// Client is a client of the control server.
type Client struct {
	conn *jsonrpc2.Conn
}

// Dial connects to the control server listening on the UNIX socket sockPath.
func Dial(ctx context.Context, sockPath string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", sockPath)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, conn), nil
}

// NewClient creates a Client talking over rwc.
func NewClient(ctx context.Context, rwc io.ReadWriteCloser) *Client {
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		// The server never sends requests.
		jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
			return nil, errMethodNotFound
		}))
	return &Client{conn}
}

// Signal applies an action and returns the resulting status.
func (c *Client) Signal(ctx context.Context, a signals.Action) (Status, error) {
	var st Status
	err := c.conn.Call(ctx, MethodSignal, SignalParams{a}, &st)
	return st, err
}

// Status returns the current status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.conn.Call(ctx, MethodStatus, nil, &st)
	return st, err
}

// History returns the journal entries with sequence numbers in [from, upto).
func (c *Client) History(ctx context.Context, from, upto int) ([]storedefs.Entry, error) {
	var entries []storedefs.Entry
	err := c.conn.Call(ctx, MethodHistory, HistoryParams{from, upto}, &entries)
	return entries, err
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
