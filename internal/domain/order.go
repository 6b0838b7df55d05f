package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The order server reads prices and totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type QueueStatus string

const (
	QueuePendingPayment QueueStatus = "pending_payment"
	QueuePaid           QueueStatus = "paid"
	QueuePreparing      QueueStatus = "preparing"
	QueueReady          QueueStatus = "ready"
	QueueServed         QueueStatus = "served"
	QueueCompleted      QueueStatus = "completed"
	QueueCancelled      QueueStatus = "cancelled"
)

func (s QueueStatus) Valid() bool {
	switch s {
	case QueuePendingPayment, QueuePaid, QueuePreparing, QueueReady, QueueServed, QueueCompleted, QueueCancelled:
		return true
	}
	return false
}

func (s QueueStatus) Terminal() bool {
	return s == QueueCompleted || s == QueueCancelled
}

type OrderType string

const (
	OrderDineIn   OrderType = "dine-in"
	OrderTakeaway OrderType = "takeaway"
)

func (t OrderType) Valid() bool {
	return t == OrderDineIn || t == OrderTakeaway
}

type CartLineItem struct {
	ItemID      string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	MenuType    MenuType        `json:"menuType,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Ingredients []Ingredient    `json:"ingredients"`
}

func (l CartLineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CustomerOrderSubmission is built once per checkout and never mutated after
// it has been handed to the realtime channel.
type CustomerOrderSubmission struct {
	OrderID      string          `json:"orderId"`
	SessionID    string          `json:"sessionId,omitempty"`
	TableID      string          `json:"tableId,omitempty"`
	QrType       QrType          `json:"qrType,omitempty"`
	CustomerName string          `json:"customerName"`
	CustomerID   string          `json:"customerId,omitempty"`
	Items        []CartLineItem  `json:"items"`
	OrderNote    string          `json:"orderNote,omitempty"`
	OrderType    OrderType       `json:"orderType"`
	TableNumber  *string         `json:"tableNumber,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Total        decimal.Decimal `json:"total"`
	Timestamp    time.Time       `json:"timestamp"`
}
