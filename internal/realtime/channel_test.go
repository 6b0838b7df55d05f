package realtime_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"rendezvous/internal/realtime"
	"rendezvous/internal/realtime/realtimetest"
)

func TestScope_EventNames(t *testing.T) {
	cases := []struct {
		scope realtime.Scope
		act   realtime.Action
		want  string
	}{
		{realtime.SessionScope("s1"), realtime.ActionJoin, "chat:join"},
		{realtime.SessionScope("s1"), realtime.ActionHistoryResult, "chat:history:result"},
		{realtime.SessionScope("s1"), realtime.ActionLeave, "chat:leave"},
		{realtime.TableScope("t1"), realtime.ActionJoin, "chat:table:join"},
		{realtime.TableScope("t1"), realtime.ActionHistory, "chat:table:history"},
		{realtime.TableScope("t1"), realtime.ActionReceive, "chat:table:receive"},
		{realtime.TableScope("t1"), realtime.ActionSend, "chat:table:send"},
	}
	for _, c := range cases {
		if got := c.scope.Event(c.act); got != c.want {
			t.Errorf("%s %s = %q, want %q", c.scope, c.act, got, c.want)
		}
	}
	if p := realtime.TableScope("t1").Payload(); p["tableId"] != "t1" || len(p) != 1 {
		t.Errorf("table payload = %v", p)
	}
	if !realtime.SessionScope("s1").Matches("s1", "t9") || realtime.SessionScope("s1").Matches("s2", "") {
		t.Errorf("session scope matching wrong")
	}
}

func TestChannel_EmitWhileDisconnected(t *testing.T) {
	ch := realtime.New(realtimetest.NewTransport())
	if err := ch.Emit("x", nil); !errors.Is(err, realtime.ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
	if ch.State() != realtime.Disconnected {
		t.Fatalf("state = %s", ch.State())
	}
}

func TestChannel_DispatchInReceiptOrder(t *testing.T) {
	tr := realtimetest.NewTransport()
	ch := realtime.New(tr, realtime.WithRetryDelay(10*time.Millisecond))
	realtimetest.Start(t, ch, tr)

	var mu sync.Mutex
	var got []int
	off := ch.On("n", func(data json.RawMessage) {
		var v int
		_ = json.Unmarshal(data, &v)
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	for i := 0; i < 20; i++ {
		if err := tr.Push("n", i); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	realtimetest.WaitFor(t, "20 events", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 20
	})
	mu.Lock()
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, order broken: %v", i, v, got)
		}
	}
	mu.Unlock()

	off()
	off()
	_ = tr.Push("n", 99)
	seen := make(chan struct{}, 1)
	ch.On("sync", func(json.RawMessage) { seen <- struct{}{} })
	_ = tr.Push("sync", nil)
	<-seen
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 20 {
		t.Fatalf("handler ran after off: %v", got)
	}
}

func TestChannel_ReconnectRerunsHooks(t *testing.T) {
	tr := realtimetest.NewTransport()
	ch := realtime.New(tr, realtime.WithRetryDelay(10*time.Millisecond))
	realtimetest.Start(t, ch, tr)

	var mu sync.Mutex
	calls := 0
	off := ch.OnConnect(func() {
		mu.Lock()
		calls++
		mu.Unlock()
		_ = ch.Emit("join", map[string]string{"tableId": "t1"})
	})
	defer off()

	if n := len(tr.SentEvents("join")); n != 1 {
		t.Fatalf("join after register = %d, want 1", n)
	}
	tr.Drop()
	realtimetest.WaitFor(t, "redial", func() bool { return tr.Dials() >= 2 && ch.Connected() })
	realtimetest.WaitFor(t, "rejoin", func() bool { return len(tr.SentEvents("join")) == 2 })
	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("hook calls = %d, want 2", calls)
	}
}

func TestChannel_CloseStopsRun(t *testing.T) {
	tr := realtimetest.NewTransport()
	ch := realtime.New(tr, realtime.WithRetryDelay(10*time.Millisecond))
	realtimetest.Start(t, ch, tr)

	if err := ch.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := ch.Emit("x", nil); !errors.Is(err, realtime.ErrClosed) {
		t.Fatalf("emit after close = %v, want ErrClosed", err)
	}
	time.Sleep(30 * time.Millisecond)
	if tr.Dials() != 1 {
		t.Fatalf("dials = %d, channel redialled after close", tr.Dials())
	}
}
