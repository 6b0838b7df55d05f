package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"rendezvous/internal/cart"
	"rendezvous/internal/domain"
	"rendezvous/internal/realtime"
)

type CheckoutRequest struct {
	CustomerName string           `json:"customerName"`
	OrderType    domain.OrderType `json:"orderType"`
	TableNumber  string           `json:"tableNumber"`
	OrderNote    string           `json:"orderNote"`
}

type Emitter interface {
	Emit(event string, payload any) error
}

// CheckoutService turns the cart into exactly one order submission. Confirm
// calls that overlap an in-flight one are refused rather than queued.
type CheckoutService struct {
	Cart     *cart.Store
	Channel  Emitter
	Sessions SessionStore
	Log      *slog.Logger
	Now      func() time.Time

	inFlight atomic.Bool
}

func (s *CheckoutService) Confirm(ctx context.Context, req CheckoutRequest) (*domain.CustomerOrderSubmission, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrConflict("order submission already in progress")
	}
	defer s.inFlight.Store(false)

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, ErrBadRequest("customer name required")
	}
	orderType := req.OrderType
	if orderType == "" {
		orderType = domain.OrderTakeaway
	}
	if !orderType.Valid() {
		return nil, ErrBadRequest("invalid order type")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := s.Cart.Lines()
	if len(items) == 0 {
		return nil, ErrBadRequest("cart is empty")
	}

	total := decimal.Zero
	for _, l := range items {
		total = total.Add(l.LineTotal())
	}
	now := s.now()
	sub := &domain.CustomerOrderSubmission{
		OrderID:      fmt.Sprintf("customer-%d", now.UnixMilli()),
		CustomerName: name,
		Items:        items,
		OrderNote:    strings.TrimSpace(req.OrderNote),
		OrderType:    orderType,
		Subtotal:     total,
		Total:        total,
		Timestamp:    now,
	}
	if orderType == domain.OrderDineIn {
		table := strings.TrimSpace(req.TableNumber)
		sub.TableNumber = &table
	}
	var sess *domain.OrderSession
	if s.Sessions != nil {
		if cur, ok := s.Sessions.Get(); ok {
			sess = cur
			sub.SessionID = cur.SessionID
			sub.TableID = cur.TableID
			sub.QrType = cur.QrType
			sub.CustomerID = cur.UserID
		}
	}

	if err := s.Channel.Emit(realtime.EventOrderSubmit, sub); err != nil {
		s.logger().Error("order submit failed", "order_id", sub.OrderID, "error", err)
		return nil, &ErrUnavailable{Op: "submit order", Err: err}
	}
	s.Cart.Subtract(items)

	if sess != nil {
		sess.LastOrderID = sub.OrderID
		if err := s.Sessions.Put(sess); err != nil {
			s.logger().Warn("failed to record last order", "order_id", sub.OrderID, "error", err)
		}
	}
	s.logger().Info("order submitted", "order_id", sub.OrderID, "items", len(sub.Items), "total", sub.Total.String())
	return sub, nil
}

func (s *CheckoutService) InFlight() bool {
	return s.inFlight.Load()
}

func (s *CheckoutService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *CheckoutService) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
