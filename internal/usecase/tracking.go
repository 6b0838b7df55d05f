package usecase

import (
	"encoding/json"
	"log/slog"
	"sync"

	"rendezvous/internal/domain"
	"rendezvous/internal/realtime"
)

// QueueSteps is the progress bar shown while an order moves through the
// kitchen. completed and cancelled are displayed outside it.
var QueueSteps = []domain.QueueStatus{
	domain.QueuePaid,
	domain.QueuePreparing,
	domain.QueueReady,
	domain.QueueServed,
}

func StepIndex(s domain.QueueStatus) int {
	for i, st := range QueueSteps {
		if st == s {
			return i
		}
	}
	return -1
}

type TrackingState struct {
	OrderID     string             `json:"orderId"`
	Status      domain.QueueStatus `json:"queueStatus"`
	OrderNumber string             `json:"orderNumber,omitempty"`
	Loaded      bool               `json:"loaded"`
	StepIndex   int                `json:"stepIndex"`
	Terminal    bool               `json:"terminal"`
	Headline    string             `json:"headline"`
}

// Tracker projects server status events for one order. The status shown is
// always the last one received for that order, whatever its step.
type Tracker struct {
	ch        EventChannel
	orderID   string
	sessionID string
	log       *slog.Logger

	mu          sync.Mutex
	status      domain.QueueStatus
	orderNumber string
	loaded      bool
	started     bool
	offs        []func()
}

func NewTracker(ch EventChannel, orderID, sessionID string, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		ch:        ch,
		orderID:   orderID,
		sessionID: sessionID,
		log:       log.With("order_id", orderID),
		status:    domain.QueuePendingPayment,
	}
}

// Start subscribes before asking for the current status so no event can slip
// between the two.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	offs := []func(){
		t.ch.On(realtime.EventOrderGetResult, t.onGetResult),
		t.ch.On(realtime.EventOrderStatusChanged, t.onStatus),
		t.ch.On(realtime.EventPaymentSuccess, t.onStatus),
		t.ch.On(realtime.EventOrderSubmitted, t.onStatus),
	}
	t.mu.Lock()
	t.offs = offs
	t.mu.Unlock()

	off := t.ch.OnConnect(t.request)
	t.mu.Lock()
	t.offs = append(t.offs, off)
	t.mu.Unlock()
}

// Stop deregisters every listener. The channel itself stays open.
func (t *Tracker) Stop() {
	t.mu.Lock()
	offs := t.offs
	t.offs = nil
	t.started = false
	t.mu.Unlock()
	for _, off := range offs {
		off()
	}
}

func (t *Tracker) request() {
	if t.sessionID != "" {
		if err := t.ch.Emit(realtime.EventTableSessionJoin, map[string]string{"sessionId": t.sessionID}); err != nil {
			t.log.Warn("table session join failed", "error", err)
		}
	}
	if err := t.ch.Emit(realtime.EventOrderGet, map[string]string{"orderId": t.orderID}); err != nil {
		t.log.Warn("order status request failed", "error", err)
	}
}

func (t *Tracker) onGetResult(data json.RawMessage) {
	var ev realtime.OrderStatusEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.log.Warn("bad order:get:result payload", "error", err)
		return
	}
	if ev.OrderID != "" && ev.OrderID != t.orderID {
		return
	}
	status := ev.QueueStatus
	if status == "" {
		status = domain.QueuePendingPayment
	}
	if !status.Valid() {
		t.log.Warn("unknown queue status", "status", status)
		return
	}
	t.mu.Lock()
	t.status = status
	t.orderNumber = ev.OrderNumber
	t.loaded = true
	t.mu.Unlock()
}

func (t *Tracker) onStatus(data json.RawMessage) {
	var ev realtime.OrderStatusEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.log.Warn("bad order status payload", "error", err)
		return
	}
	if ev.OrderID != t.orderID {
		return
	}
	if !ev.QueueStatus.Valid() {
		t.log.Warn("unknown queue status", "status", ev.QueueStatus)
		return
	}
	t.mu.Lock()
	t.status = ev.QueueStatus
	if ev.OrderNumber != "" {
		t.orderNumber = ev.OrderNumber
	}
	t.loaded = true
	t.mu.Unlock()
	t.log.Debug("order status changed", "status", ev.QueueStatus)
}

func (t *Tracker) Snapshot() TrackingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackingState{
		OrderID:     t.orderID,
		Status:      t.status,
		OrderNumber: t.orderNumber,
		Loaded:      t.loaded,
		StepIndex:   StepIndex(t.status),
		Terminal:    t.status.Terminal(),
		Headline:    headline(t.status),
	}
}

func headline(s domain.QueueStatus) string {
	switch s {
	case domain.QueuePendingPayment:
		return "Awaiting Payment"
	case domain.QueueCompleted:
		return "Order Complete!"
	case domain.QueueCancelled:
		return "Order Cancelled"
	}
	return "Tracking your order"
}
