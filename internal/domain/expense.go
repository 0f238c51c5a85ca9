package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for monetary amounts.
const AmountPlaces = 2

// Expense is a dated monetary record owned by a single user.
type Expense struct {
	ID      int64           // Unique identifier assigned by the store
	Name    string          // Trimmed, non-empty
	Amount  decimal.Decimal // Positive, rounded to AmountPlaces
	Date    Date            // Calendar date of the expense
	OwnerID *int64          // Owning user; nil only for rows that predate ownership
}

// OwnedBy reports whether the expense belongs to the given user.
// Owner-less expenses belong to nobody.
func (e Expense) OwnedBy(userID int64) bool {
	return e.OwnerID != nil && *e.OwnerID == userID
}

type expenseJSON struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Amount  json.Number `json:"amount"`
	Date    Date        `json:"date"`
	OwnerID *int64      `json:"userId"`
}

// MarshalJSON renders the amount as a JSON number with exactly two fractional digits.
func (e Expense) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck
	return json.Marshal(expenseJSON{
		ID:      e.ID,
		Name:    e.Name,
		Amount:  json.Number(e.Amount.StringFixed(AmountPlaces)),
		Date:    e.Date,
		OwnerID: e.OwnerID,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Expense) UnmarshalJSON(b []byte) error {
	var raw expenseJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("unmarshal expense: %w", err)
	}

	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}

	*e = Expense{
		ID:      raw.ID,
		Name:    raw.Name,
		Amount:  amount,
		Date:    raw.Date,
		OwnerID: raw.OwnerID,
	}

	return nil
}

// DeletedResponse acknowledges a successful delete.
type DeletedResponse struct {
	Message string `json:"message"`
}
