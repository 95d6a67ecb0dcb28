// Package queue publishes bill events to RabbitMQ.
package queue

import "time"

const BillPaidQueue = "bill.paid"

// BillPaidEvent is emitted after a bill is marked paid. NextBillID is set
// when paying a recurring bill produced its successor.
type BillPaidEvent struct {
	BillID     string    `json:"bill_id"`
	UserID     string    `json:"user_id"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	PaidAt     time.Time `json:"paid_at"`
	NextBillID string    `json:"next_bill_id,omitempty"`
}
