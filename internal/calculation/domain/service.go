package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// CurrencyResolver looks up the precision configured for a currency code.
type CurrencyResolver interface {
	Resolve(ctx context.Context, code string) (Currency, error)
	Default(ctx context.Context) Currency
}

type Service interface {
	Calculate(ctx context.Context, req CalculateRequest) (CalculateResponse, error)
}

// CalculateRequest carries the document to calculate. Currency wins over
// CurrencyCode; with neither the configured default is used.
type CalculateRequest struct {
	Document     *Document `json:"document"`
	Currency     *Currency `json:"currency,omitempty"`
	CurrencyCode string    `json:"currency_code,omitempty"`
}

type CalculateResponse struct {
	ID                snowflake.ID `json:"id"`
	Kind              DocumentKind `json:"kind"`
	Currency          Currency     `json:"currency"`
	SubTotal          float64      `json:"sub_total"`
	TotalDiscount     float64      `json:"total_discount"`
	TotalTaxes        float64      `json:"total_taxes"`
	TotalCustomValues float64      `json:"total_custom_values"`
	Total             float64      `json:"total"`
	Amount            float64      `json:"amount"`
	Balance           float64      `json:"balance"`
	BalanceDue        float64      `json:"balance_due"`
	TaxMap            []TaxItem    `json:"tax_map"`
	DocumentTaxes     []TaxItem    `json:"document_taxes"`
	LineItems         []LineItem   `json:"line_items"`
}
