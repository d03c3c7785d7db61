package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is a currency amount in minor units (cents).
// Arithmetic on Money is exact; formatting rounds nothing.
type Money int64

// Cents builds a Money value from whole units and cents, e.g. Cents(14, 99).
func Cents(units, cents int64) Money {
	return Money(units*100 + cents)
}

// String renders the amount with two decimals, e.g. "14.99".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseMoney parses a decimal amount with at most two fractional digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidInput)
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: amount %q has more than two decimals", ErrInvalidInput, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	m := Money(units*100 + cents)
	if neg {
		m = -m
	}
	return m, nil
}

// Service is a purchasable photo product. Services are immutable reference data.
type Service struct {
	// ID is the unique identifier for the service.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Price is charged once per approved photo.
	Price Money `json:"price_cents"`

	// DocumentType describes what the customer receives, e.g. "Digital + Print".
	DocumentType string `json:"document_type"`

	// Description is a short human summary.
	Description string `json:"description"`

	// DefaultPresetID is applied when the service is selected.
	DefaultPresetID string `json:"default_preset_id"`
}

// DefaultServices returns the built-in service table.
func DefaultServices() []Service {
	return []Service{
		{
			ID:              "us-passport",
			Name:            "US Passport Photo",
			Price:           Cents(14, 99),
			DocumentType:    "Digital + Print",
			Description:     "2x2 inches, White Background",
			DefaultPresetID: "us-2x2",
		},
		{
			ID:              "uk-passport",
			Name:            "UK Passport Photo",
			Price:           Cents(12, 99),
			DocumentType:    "Digital Code",
			Description:     "35x45mm, Light Grey Background",
			DefaultPresetID: "uk-35x45",
		},
		{
			ID:              "eu-visa",
			Name:            "Schengen Visa",
			Price:           Cents(12, 99),
			DocumentType:    "Digital",
			Description:     "35x45mm, White Background",
			DefaultPresetID: "schengen-35x45",
		},
		{
			ID:              "jp-visa",
			Name:            "Japan Visa",
			Price:           Cents(14, 99),
			DocumentType:    "Digital",
			Description:     "45x45mm, White Background",
			DefaultPresetID: "japan-45x45",
		},
		{
			ID:              "ca-passport",
			Name:            "Canada Passport Photo",
			Price:           Cents(15, 99),
			DocumentType:    "Digital + Print",
			Description:     "50x70mm, White Background",
			DefaultPresetID: "canada-50x70",
		},
		{
			ID:              "any-document",
			Name:            "Any Country Document",
			Price:           Cents(9, 99),
			DocumentType:    "Digital",
			Description:     "Pick the size by country",
			DefaultPresetID: "schengen-35x45",
		},
	}
}
