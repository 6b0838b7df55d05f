package wsconn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"rendezvous/internal/realtime"
)

func TestTransport_RoundTrip(t *testing.T) {
	gotQuery := make(chan url.Values, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery <- r.URL.Query()
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		var in realtime.Envelope
		if err := ws.ReadJSON(&in); err != nil {
			return
		}
		data, _ := json.Marshal(map[string]string{"echo": in.Event})
		_ = ws.WriteJSON(realtime.Envelope{Event: in.Event + ":result", Data: data})
	}))
	defer srv.Close()

	tr := New(srv.URL)
	tr.Query = func() url.Values {
		return url.Values{"sessionId": {"table-5"}, "userId": {""}}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := tr.Dial(ctx)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	q := <-gotQuery
	if q.Get("sessionId") != "table-5" {
		t.Fatalf("sessionId query = %q", q.Get("sessionId"))
	}
	if _, ok := q["userId"]; ok {
		t.Fatalf("empty query values should be skipped: %v", q)
	}

	if err := c.Send(realtime.Envelope{Event: "order:get", Data: json.RawMessage(`{"orderId":"o1"}`)}); err != nil {
		t.Fatalf("send: %v", err)
	}
	e, err := c.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if e.Event != "order:get:result" {
		t.Fatalf("event = %q", e.Event)
	}
	var body map[string]string
	_ = json.Unmarshal(e.Data, &body)
	if body["echo"] != "order:get" {
		t.Fatalf("data = %s", e.Data)
	}
}

func TestToWebsocketURL(t *testing.T) {
	cases := map[string]string{
		"https://rt.example.com/ws": "wss://rt.example.com/ws",
		"http://127.0.0.1:3001":     "ws://127.0.0.1:3001",
		"ws://already":              "ws://already",
	}
	for in, want := range cases {
		if got := toWebsocketURL(in); got != want {
			t.Errorf("toWebsocketURL(%q) = %q, want %q", in, got, want)
		}
	}
}
