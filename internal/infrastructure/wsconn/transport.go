package wsconn

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rendezvous/internal/realtime"
)

const writeWait = 10 * time.Second

// Transport dials the order server's websocket endpoint. Query is evaluated
// on every dial so a reconnect carries the identity current at that moment.
type Transport struct {
	URL    string
	Header http.Header
	Query  func() url.Values
	Dialer *websocket.Dialer
}

func New(rawURL string) *Transport {
	return &Transport{URL: toWebsocketURL(rawURL)}
}

func (t *Transport) Dial(ctx context.Context) (realtime.Conn, error) {
	d := t.Dialer
	if d == nil {
		d = &websocket.Dialer{Proxy: http.ProxyFromEnvironment, HandshakeTimeout: 10 * time.Second}
	}
	u, err := url.Parse(t.URL)
	if err != nil {
		return nil, err
	}
	if t.Query != nil {
		q := u.Query()
		for k, vs := range t.Query() {
			for _, v := range vs {
				if v != "" {
					q.Add(k, v)
				}
			}
		}
		u.RawQuery = q.Encode()
	}
	ws, resp, err := d.DialContext(ctx, u.String(), t.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &conn{ws: ws}, nil
}

type conn struct {
	ws  *websocket.Conn
	wmu sync.Mutex
}

func (c *conn) Send(e realtime.Envelope) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(e)
}

func (c *conn) Receive() (realtime.Envelope, error) {
	var e realtime.Envelope
	err := c.ws.ReadJSON(&e)
	return e, err
}

func (c *conn) Close() error {
	c.wmu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.wmu.Unlock()
	return c.ws.Close()
}

func toWebsocketURL(raw string) string {
	switch {
	case strings.HasPrefix(raw, "https://"):
		return "wss://" + strings.TrimPrefix(raw, "https://")
	case strings.HasPrefix(raw, "http://"):
		return "ws://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}
