package service

import (
	"context"
	"testing"

	calculationdomain "github.com/smallbiznis/invoicesum/internal/calculation/domain"
	"github.com/smallbiznis/invoicesum/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, defaultCode string) calculationdomain.CurrencyResolver {
	t.Helper()

	holder, err := config.NewStaticCurrencyConfigHolder(config.CurrencyConfig{
		Currencies: []config.CurrencySetting{
			{Code: "USD", Precision: 2},
			{Code: "KWD", Precision: 3},
		},
	})
	require.NoError(t, err)

	return NewCurrencyResolver(config.Config{DefaultCurrency: defaultCode, DefaultPrecision: 4}, holder)
}

func TestCurrencyResolver_Resolve(t *testing.T) {
	resolver := newTestResolver(t, "USD")

	currency, err := resolver.Resolve(context.Background(), " kwd ")
	require.NoError(t, err)
	assert.Equal(t, calculationdomain.Currency{Code: "KWD", Precision: 3}, currency)

	_, err = resolver.Resolve(context.Background(), "XXX")
	assert.ErrorIs(t, err, calculationdomain.ErrCurrencyNotFound)
	assert.Contains(t, err.Error(), "XXX")
}

func TestCurrencyResolver_Default(t *testing.T) {
	assert.Equal(t,
		calculationdomain.Currency{Code: "USD", Precision: 2},
		newTestResolver(t, "usd").Default(context.Background()),
	)
	assert.Equal(t,
		calculationdomain.Currency{Code: "XAU", Precision: 4},
		newTestResolver(t, "XAU").Default(context.Background()),
	)
}
