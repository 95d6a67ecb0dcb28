package models

import "time"

type Frequency string

const (
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Next returns the due date following due for this frequency.
func (f Frequency) Next(due time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return due.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return due.AddDate(0, 1, 0)
	case FrequencyYearly:
		return due.AddDate(1, 0, 0)
	}
	return due
}

type BillStatus string

const (
	BillStatusAll      BillStatus = "all"
	BillStatusUpcoming BillStatus = "upcoming"
	BillStatusOverdue  BillStatus = "overdue"
	BillStatusPaid     BillStatus = "paid"
)

func (s BillStatus) Valid() bool {
	switch s {
	case BillStatusAll, BillStatusUpcoming, BillStatusOverdue, BillStatusPaid:
		return true
	}
	return false
}

type Bill struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Description *string    `json:"description"`
	IsRecurring bool       `json:"isRecurring"`
	Frequency   *Frequency `json:"frequency"`
	DueDate     time.Time  `json:"dueDate"`
	PaidAt      *time.Time `json:"paidAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BillFilter selects one page of a user's bills. Now anchors the
// upcoming/overdue split.
type BillFilter struct {
	Status BillStatus
	Limit  int
	Offset int
	Now    time.Time
}

// Matches reports whether b falls under f.Status at f.Now.
func (f BillFilter) Matches(b *Bill) bool {
	switch f.Status {
	case BillStatusPaid:
		return b.PaidAt != nil
	case BillStatusUpcoming:
		return b.PaidAt == nil && !b.DueDate.Before(f.Now)
	case BillStatusOverdue:
		return b.PaidAt == nil && b.DueDate.Before(f.Now)
	}
	return true
}
