package expensesvc

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkrupp/expensetracker/internal/domain"
)

// maxAmount is the first value that no longer fits NUMERIC(15,2).
var maxAmount = decimal.New(1, 13)

func validateDate(date string) (domain.Date, error) {
	parsed, err := domain.ParseDate(date)
	if err != nil {
		return domain.Date{}, domain.ErrInvalidDate
	}

	return parsed, nil
}

// validateAmount returns amount rounded half away from zero to two places.
func validateAmount(amount decimal.NullDecimal) (decimal.Decimal, error) {
	if !amount.Valid {
		return decimal.Decimal{}, domain.ErrAmountRequired
	}

	if !amount.Decimal.IsPositive() {
		return decimal.Decimal{}, domain.ErrAmountNotPositive
	}

	rounded := amount.Decimal.Round(domain.AmountPlaces)

	switch {
	case !rounded.IsPositive():
		return decimal.Decimal{}, domain.ErrAmountNotPositive
	case rounded.GreaterThanOrEqual(maxAmount):
		return decimal.Decimal{}, domain.ErrAmountTooLarge
	}

	return rounded, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}

	return name, nil
}
