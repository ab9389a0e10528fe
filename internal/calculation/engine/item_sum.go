package engine

import (
	"github.com/smallbiznis/invoicesum/internal/calculation/domain"
	"github.com/smallbiznis/invoicesum/internal/money"
)

// ItemSum aggregates the line items of a document: it computes line totals
// and line taxes, the subtotal, and one tax bundle per taxed line.
type ItemSum struct {
	document  *domain.Document
	precision int

	lineItems     []domain.LineItem
	taxCollection [][]domain.TaxItem
	subTotal      float64
	totalTaxes    float64
}

func NewItemSum(doc *domain.Document, currency domain.Currency) *ItemSum {
	if doc == nil {
		doc = &domain.Document{}
	}
	return &ItemSum{
		document:  doc,
		precision: currency.DigitCount(),
		lineItems: []domain.LineItem{},
	}
}

// Process recomputes every line of the document. The document's own slice
// is left untouched; callers pick up the result from LineItems.
func (s *ItemSum) Process() *ItemSum {
	s.lineItems = make([]domain.LineItem, 0, len(s.document.LineItems))
	s.taxCollection = nil
	s.subTotal = 0
	s.totalTaxes = 0

	for _, item := range s.document.LineItems {
		item = sanitizeLineItem(item)
		item = s.sumLineItem(item)
		item = s.setDiscount(item)
		taxed, bundle := s.calculateTaxes(item)
		s.push(taxed, bundle)
	}

	return s
}

// CalculateTaxesWithAmountDiscount spreads a fixed document discount over
// the processed lines in proportion to their totals and recomputes line
// taxes on the discounted amounts. The subtotal does not change.
func (s *ItemSum) CalculateTaxesWithAmountDiscount() *ItemSum {
	s.taxCollection = nil
	s.totalTaxes = 0

	discount := money.Finite(s.document.Discount)

	for i, item := range s.lineItems {
		if item.LineTotal == 0 {
			continue
		}

		amount := item.LineTotal
		if discount != 0 && s.subTotal != 0 {
			amount = item.LineTotal - discount*(item.LineTotal/s.subTotal)
		}

		var itemTax float64
		bundle := make([]domain.TaxItem, 0, 3)
		for _, slot := range item.TaxSlots() {
			if !hasName(slot.Name) {
				continue
			}
			tax := money.Taxer(amount, slot.Rate)
			itemTax += tax
			if tax != 0 {
				bundle = append(bundle, taxItem(slot, tax))
			}
		}

		item.TaxAmount = itemTax
		item.GrossLineTotal = item.LineTotal + itemTax
		s.lineItems[i] = item

		s.totalTaxes += itemTax
		if len(bundle) > 0 {
			s.taxCollection = append(s.taxCollection, bundle)
		}
	}

	return s
}

func (s *ItemSum) LineItems() []domain.LineItem { return s.lineItems }

func (s *ItemSum) SubTotal() float64 { return s.subTotal }

// TotalTaxes is the sum of all line taxes.
func (s *ItemSum) TotalTaxes() float64 { return s.totalTaxes }

// TaxCollection returns one bundle of tax rows per taxed line, in line order.
func (s *ItemSum) TaxCollection() [][]domain.TaxItem { return s.taxCollection }

func (s *ItemSum) sumLineItem(item domain.LineItem) domain.LineItem {
	item.LineTotal = money.Round(item.Cost*item.Quantity, s.precision)
	return item
}

// setDiscount applies the line's own discount. On amount-discounted
// documents it is a fixed amount for that line, otherwise a percentage.
func (s *ItemSum) setDiscount(item domain.LineItem) domain.LineItem {
	if s.document.IsAmountDiscount {
		item.LineTotal = money.Round(item.LineTotal-item.Discount, s.precision)
	} else {
		discount := item.LineTotal * (item.Discount / 100)
		item.LineTotal = money.Round(item.LineTotal-discount, s.precision)
	}
	item.IsAmountDiscount = s.document.IsAmountDiscount
	return item
}

func (s *ItemSum) calculateTaxes(item domain.LineItem) (domain.LineItem, []domain.TaxItem) {
	var itemTax float64
	bundle := make([]domain.TaxItem, 0, 3)

	for _, slot := range item.TaxSlots() {
		if !hasName(slot.Name) {
			continue
		}
		tax := money.Taxer(item.LineTotal, slot.Rate)
		itemTax += tax
		bundle = append(bundle, taxItem(slot, tax))
	}

	item.TaxAmount = itemTax
	item.GrossLineTotal = item.LineTotal + itemTax
	return item, bundle
}

func (s *ItemSum) push(item domain.LineItem, bundle []domain.TaxItem) {
	s.subTotal += item.LineTotal
	s.totalTaxes += item.TaxAmount
	s.lineItems = append(s.lineItems, item)
	if len(bundle) > 0 {
		s.taxCollection = append(s.taxCollection, bundle)
	}
}

func sanitizeLineItem(item domain.LineItem) domain.LineItem {
	item.Quantity = money.Finite(item.Quantity)
	item.Cost = money.Finite(item.Cost)
	item.Discount = money.Finite(item.Discount)
	item.TaxRate1 = money.Finite(item.TaxRate1)
	item.TaxRate2 = money.Finite(item.TaxRate2)
	item.TaxRate3 = money.Finite(item.TaxRate3)
	return item
}
