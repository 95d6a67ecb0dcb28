package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BillInput is the body of create and update requests.
type BillInput struct {
	Name        string       `json:"name"`
	Amount      float64      `json:"amount"`
	Currency    string       `json:"currency"`
	Description *string      `json:"description"`
	IsRecurring bool         `json:"isRecurring"`
	Frequency   *Frequency   `json:"frequency"`
	DueDate     time.Time    `json:"dueDate"`
	PaidAt      OptionalTime `json:"paidAt"`
}

// OptionalTime distinguishes an absent JSON field from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// BillInputError lists body fields whose values could not be decoded.
type BillInputError struct {
	Fields map[string]string
}

func (e *BillInputError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid bill fields: %s", strings.Join(names, ", "))
}

// UnmarshalJSON accepts amount as a number or a numeric string and requires
// RFC 3339 timestamps for dueDate and paidAt.
func (in *BillInput) UnmarshalJSON(data []byte) error {
	type plain BillInput
	aux := struct {
		*plain
		Amount  json.RawMessage `json:"amount"`
		DueDate json.RawMessage `json:"dueDate"`
		PaidAt  json.RawMessage `json:"paidAt"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	invalid := map[string]string{}

	if !isNull(aux.Amount) {
		amount, err := decodeAmount(aux.Amount)
		if err != nil {
			invalid["amount"] = "Amount must be a number"
		} else {
			in.Amount = amount
		}
	}

	if !isNull(aux.DueDate) {
		dueDate, err := decodeTimestamp(aux.DueDate)
		if err != nil {
			invalid["dueDate"] = "dueDate must be an ISO datetime string"
		} else {
			in.DueDate = dueDate
		}
	}

	if aux.PaidAt != nil {
		in.PaidAt = OptionalTime{Set: true}
		if !isNull(aux.PaidAt) {
			paidAt, err := decodeTimestamp(aux.PaidAt)
			if err != nil {
				invalid["paidAt"] = "paidAt must be an ISO datetime string or null"
			} else {
				in.PaidAt.Value = &paidAt
			}
		}
	}

	if len(invalid) > 0 {
		return &BillInputError{Fields: invalid}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeAmount(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	var f float64
	err := json.Unmarshal(raw, &f)
	return f, err
}

func decodeTimestamp(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}

type ListBillsQuery struct {
	Page   int
	Limit  int
	Status BillStatus
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type BillPage struct {
	Bills      []Bill     `json:"bills"`
	Pagination Pagination `json:"pagination"`
}

type BillResponse struct {
	Bill Bill `json:"bill"`
}

type PayBillResponse struct {
	Bill     Bill  `json:"bill"`
	NextBill *Bill `json:"nextBill"`
}
