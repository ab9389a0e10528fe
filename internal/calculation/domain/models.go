// Package domain contains the document contract used by totals calculation.
package domain

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/invoicesum/internal/money"
)

// DocumentKind identifies which sales document is being calculated.
type DocumentKind string

const (
	DocumentKindInvoice          DocumentKind = "invoice"
	DocumentKindRecurringInvoice DocumentKind = "recurring_invoice"
	DocumentKindPurchaseOrder    DocumentKind = "purchase_order"
	DocumentKindCredit           DocumentKind = "credit"
	DocumentKindQuote            DocumentKind = "quote"
)

// Normalize maps an empty kind to invoice.
func (k DocumentKind) Normalize() DocumentKind {
	value := DocumentKind(strings.ToLower(strings.TrimSpace(string(k))))
	if value == "" {
		return DocumentKindInvoice
	}
	return value
}

// Valid reports whether the kind is one of the supported documents.
func (k DocumentKind) Valid() bool {
	switch k.Normalize() {
	case DocumentKindInvoice,
		DocumentKindRecurringInvoice,
		DocumentKindPurchaseOrder,
		DocumentKindCredit,
		DocumentKindQuote:
		return true
	default:
		return false
	}
}

// LineItemType mirrors the type_id values sent by the API.
type LineItemType string

const (
	LineItemTypeProduct          LineItemType = "1"
	LineItemTypeTask             LineItemType = "2"
	LineItemTypeUnpaidGatewayFee LineItemType = "3"
	LineItemTypePaidGatewayFee   LineItemType = "4"
	LineItemTypeLateFee          LineItemType = "5"
	LineItemTypeExpense          LineItemType = "6"
)

// LineItem is one priced row of a document. LineTotal, GrossLineTotal,
// TaxAmount and IsAmountDiscount are overwritten on every calculation.
type LineItem struct {
	TypeID     LineItemType `json:"type_id,omitempty"`
	ProductKey string       `json:"product_key,omitempty"`
	Notes      string       `json:"notes,omitempty"`

	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
	Discount float64 `json:"discount"`

	TaxName1 string  `json:"tax_name1"`
	TaxRate1 float64 `json:"tax_rate1"`
	TaxName2 string  `json:"tax_name2"`
	TaxRate2 float64 `json:"tax_rate2"`
	TaxName3 string  `json:"tax_name3"`
	TaxRate3 float64 `json:"tax_rate3"`

	LineTotal        float64 `json:"line_total"`
	GrossLineTotal   float64 `json:"gross_line_total"`
	TaxAmount        float64 `json:"tax_amount"`
	IsAmountDiscount bool    `json:"is_amount_discount"`
}

// TaxSlots returns the three (name, rate) pairs of the line.
func (l LineItem) TaxSlots() [3]TaxKey {
	return [3]TaxKey{
		{Name: l.TaxName1, Rate: l.TaxRate1},
		{Name: l.TaxName2, Rate: l.TaxRate2},
		{Name: l.TaxName3, Rate: l.TaxRate3},
	}
}

// Surcharge is one of the four document-level custom charges.
type Surcharge struct {
	Amount  float64
	Taxable bool
}

// Document is the calculable part of an invoice, recurring invoice,
// purchase order, credit or quote. Amount, Balance and TotalTaxes are
// written by the calculation.
type Document struct {
	Kind      DocumentKind `json:"kind,omitempty"`
	LineItems []LineItem   `json:"line_items"`

	Discount         float64 `json:"discount"`
	IsAmountDiscount bool    `json:"is_amount_discount"`

	TaxName1 string  `json:"tax_name1"`
	TaxRate1 float64 `json:"tax_rate1"`
	TaxName2 string  `json:"tax_name2"`
	TaxRate2 float64 `json:"tax_rate2"`
	TaxName3 string  `json:"tax_name3"`
	TaxRate3 float64 `json:"tax_rate3"`

	CustomSurcharge1    float64 `json:"custom_surcharge1"`
	CustomSurcharge2    float64 `json:"custom_surcharge2"`
	CustomSurcharge3    float64 `json:"custom_surcharge3"`
	CustomSurcharge4    float64 `json:"custom_surcharge4"`
	CustomSurchargeTax1 bool    `json:"custom_surcharge_tax1"`
	CustomSurchargeTax2 bool    `json:"custom_surcharge_tax2"`
	CustomSurchargeTax3 bool    `json:"custom_surcharge_tax3"`
	CustomSurchargeTax4 bool    `json:"custom_surcharge_tax4"`

	PaidToDate float64 `json:"paid_to_date"`
	Partial    float64 `json:"partial"`

	Amount     float64 `json:"amount"`
	Balance    float64 `json:"balance"`
	TotalTaxes float64 `json:"total_taxes"`
}

// TaxSlots returns the three document-level (name, rate) pairs.
func (d *Document) TaxSlots() [3]TaxKey {
	return [3]TaxKey{
		{Name: d.TaxName1, Rate: d.TaxRate1},
		{Name: d.TaxName2, Rate: d.TaxRate2},
		{Name: d.TaxName3, Rate: d.TaxRate3},
	}
}

// Surcharges returns the four custom surcharges in order.
func (d *Document) Surcharges() [4]Surcharge {
	return [4]Surcharge{
		{Amount: d.CustomSurcharge1, Taxable: d.CustomSurchargeTax1},
		{Amount: d.CustomSurcharge2, Taxable: d.CustomSurchargeTax2},
		{Amount: d.CustomSurcharge3, Taxable: d.CustomSurchargeTax3},
		{Amount: d.CustomSurcharge4, Taxable: d.CustomSurchargeTax4},
	}
}

// Currency supplies the rounding precision. A zero precision means unset.
type Currency struct {
	Code      string `json:"code,omitempty"`
	Precision int    `json:"precision"`
}

// DigitCount is the precision used for rounding.
func (c Currency) DigitCount() int {
	return money.Precision(c.Precision)
}

// TaxKey groups tax contributions by name and rate.
type TaxKey struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// Label renders "GST 10 %".
func (k TaxKey) Label() string {
	return fmt.Sprintf("%s %s %%", k.Name, money.FormatRate(k.Rate))
}

// TaxItem is one row of the tax breakdown.
type TaxItem struct {
	Key   TaxKey  `json:"key"`
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}
