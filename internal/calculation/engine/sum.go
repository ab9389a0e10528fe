// Package engine computes sales document totals.
//
// Sum.Build runs a fixed pipeline: line items, discount, document taxes,
// custom surcharges, tax map, totals, balance. Each step reads the totals
// produced by the previous one, so the order cannot change.
package engine

import (
	"math"

	"github.com/smallbiznis/invoicesum/internal/calculation/domain"
	"github.com/smallbiznis/invoicesum/internal/money"
)

// PeppolSurchargeTaxName labels the synthesized surcharge tax when the
// first line item has no tax name of its own.
const PeppolSurchargeTaxName = "Peppol surcharge"

// totals is the state handed from one pipeline step to the next.
type totals struct {
	subTotal          float64
	totalDiscount     float64
	total             float64
	totalTaxes        float64
	totalCustomValues float64
	documentTaxes     []domain.TaxItem
	taxMap            []domain.TaxItem
}

// Sum calculates one document. It owns the document for the duration of
// Build and must not be shared between goroutines.
type Sum struct {
	document  *domain.Document
	currency  domain.Currency
	precision int

	items  *ItemSum
	result totals
}

func New(doc *domain.Document, currency domain.Currency) *Sum {
	if doc == nil {
		doc = &domain.Document{}
	}
	return &Sum{
		document:  doc,
		currency:  currency,
		precision: currency.DigitCount(),
		items:     NewItemSum(doc, currency),
	}
}

// Build recalculates the document in place and returns the Sum for
// reading the results.
func (s *Sum) Build() *Sum {
	s.items = NewItemSum(s.document, s.currency)

	t := totals{}
	t = s.calculateLineItems(t)
	t = s.calculateDiscount(t)
	t = s.calculateInvoiceTaxes(t)
	t = s.calculateCustomValues(t)
	t = s.setTaxMap(t)
	t = s.calculateTotals(t)
	t = s.calculateBalance(t)

	s.result = t
	return s
}

// TaxMap returns the tax breakdown grouped by tax name and rate.
func (s *Sum) TaxMap() []domain.TaxItem {
	return append([]domain.TaxItem(nil), s.result.taxMap...)
}

// DocumentTaxes returns the contribution of each named document tax slot,
// surcharge taxes included.
func (s *Sum) DocumentTaxes() []domain.TaxItem {
	return append([]domain.TaxItem(nil), s.result.documentTaxes...)
}

// BalanceDue is the partial amount when one is requested, capped at the
// balance.
func (s *Sum) BalanceDue() float64 {
	partial := money.Finite(s.document.Partial)
	balance := money.Finite(s.document.Balance)
	if partial > 0 {
		return math.Min(partial, balance)
	}
	return balance
}

func (s *Sum) SubTotal() float64          { return s.result.subTotal }
func (s *Sum) TotalDiscount() float64     { return s.result.totalDiscount }
func (s *Sum) TotalTaxes() float64        { return s.result.totalTaxes }
func (s *Sum) TotalCustomValues() float64 { return s.result.totalCustomValues }
func (s *Sum) Total() float64             { return s.result.total }

// Document returns the calculated document.
func (s *Sum) Document() *domain.Document { return s.document }

func (s *Sum) calculateLineItems(t totals) totals {
	s.items.Process()
	s.document.LineItems = s.items.LineItems()

	t.subTotal = s.items.SubTotal()
	t.total = t.subTotal
	return t
}

func (s *Sum) calculateDiscount(t totals) totals {
	t.totalDiscount = s.discount(t.subTotal)
	t.total -= t.totalDiscount
	return t
}

func (s *Sum) calculateInvoiceTaxes(t totals) totals {
	var calculated float64
	documentTaxes := make([]domain.TaxItem, 0, 3)

	for _, slot := range s.document.TaxSlots() {
		if !hasName(slot.Name) {
			continue
		}
		rate := money.Finite(slot.Rate)

		tax := money.Taxer(t.total, rate)
		tax += s.surchargeTaxFor(rate)
		calculated += tax

		key := domain.TaxKey{Name: slot.Name, Rate: rate}
		documentTaxes = append(documentTaxes, domain.TaxItem{
			Key:   key,
			Name:  domain.TaxKey{Name: slot.Name, Rate: money.Round(rate, s.precision)}.Label(),
			Total: tax,
		})
	}

	t.totalTaxes = money.Round(calculated, s.precision)
	t.documentTaxes = documentTaxes
	return t
}

func (s *Sum) calculateCustomValues(t totals) totals {
	for _, surcharge := range s.document.Surcharges() {
		t.totalCustomValues += money.Finite(surcharge.Amount)
	}
	t.total += t.totalCustomValues
	return t
}

func (s *Sum) setTaxMap(t totals) totals {
	if s.document.IsAmountDiscount {
		s.items.CalculateTaxesWithAmountDiscount()
		s.document.LineItems = s.items.LineItems()
	}

	contributions := make([]domain.TaxItem, 0)
	for _, bundle := range s.items.TaxCollection() {
		contributions = append(contributions, bundle...)
	}
	contributions = append(contributions, t.documentTaxes...)

	if !hasName(s.document.TaxName1) &&
		money.Finite(s.document.CustomSurcharge1) != 0 &&
		s.document.CustomSurchargeTax1 {
		if peppol, ok := s.peppolSurchargeTax(); ok {
			contributions = append(contributions, peppol)
		}
	}

	t.taxMap = mergeTaxes(contributions)
	t.totalTaxes = money.Round(t.totalTaxes+s.items.TotalTaxes(), s.precision)
	return t
}

func (s *Sum) calculateTotals(t totals) totals {
	t.total += t.totalTaxes
	return t
}

func (s *Sum) calculateBalance(t totals) totals {
	amount := money.Round(t.total, s.precision)

	s.document.Amount = amount
	s.document.Balance = amount - money.Finite(s.document.PaidToDate)
	s.document.TotalTaxes = t.totalTaxes
	return t
}

// discount returns the document discount in currency. Amount discounts are
// taken as is, percentages are applied to amount.
func (s *Sum) discount(amount float64) float64 {
	discount := money.Finite(s.document.Discount)
	if s.document.IsAmountDiscount {
		return discount
	}
	return money.Round(amount*(discount/100), s.precision)
}

// surchargeTaxFor is the tax due on taxable surcharges at rate.
func (s *Sum) surchargeTaxFor(rate float64) float64 {
	var component float64
	for _, surcharge := range s.document.Surcharges() {
		if !surcharge.Taxable {
			continue
		}
		component += money.Round(money.Finite(surcharge.Amount)*(rate/100), s.precision)
	}
	return component
}

// peppolSurchargeTax synthesizes a surcharge tax row for documents without
// a document-level tax. It borrows the first tax rate of the first line
// item.
func (s *Sum) peppolSurchargeTax() (domain.TaxItem, bool) {
	if len(s.document.LineItems) == 0 {
		return domain.TaxItem{}, false
	}
	first := s.document.LineItems[0]

	rate := money.Finite(first.TaxRate1)
	var amount float64
	for _, surcharge := range s.document.Surcharges() {
		amount += money.Finite(surcharge.Amount)
	}
	if rate <= 0 || amount == 0 {
		return domain.TaxItem{}, false
	}

	name := first.TaxName1
	if !hasName(name) {
		name = PeppolSurchargeTaxName
	}
	return taxItem(domain.TaxKey{Name: name, Rate: rate}, money.RoundCents(amount*rate/100)), true
}
