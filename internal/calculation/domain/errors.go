package domain

import "errors"

var (
	ErrInvalidDocument     = errors.New("invalid_document")
	ErrInvalidDocumentKind = errors.New("invalid_document_kind")
	ErrCurrencyNotFound    = errors.New("currency_not_found")
)
