package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_SERVICE", "")
	t.Setenv("DEFAULT_CURRENCY_PRECISION", "")
	t.Setenv("DEFAULT_CURRENCY", "eur")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("SNOWFLAKE_NODE", "not-a-number")

	cfg := Load()

	assert.Equal(t, "invoicesum", cfg.AppName)
	assert.Equal(t, 2, cfg.DefaultPrecision)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
}

func TestCurrencyConfigHolder_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currencies.yml")
	content := "currencies:\n  - code: usd\n    precision: 2\n  - code: KWD\n    precision: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	holder, err := NewCurrencyConfigHolder(Config{CurrencyFile: path})
	require.NoError(t, err)

	usd, ok := holder.Lookup("USD")
	require.True(t, ok)
	assert.Equal(t, 2, usd.Precision)

	kwd, ok := holder.Lookup(" kwd ")
	require.True(t, ok)
	assert.Equal(t, 3, kwd.Precision)

	_, ok = holder.Lookup("EUR")
	assert.False(t, ok)
}

func TestCurrencyConfigHolder_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	holder, err := NewCurrencyConfigHolder(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultCurrencyConfig(), holder.Get())
}

func TestCurrencyConfigHolder_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currencies.yml")
	content := "currencies:\n  - code: USD\n    precision: -1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := NewCurrencyConfigHolder(Config{CurrencyFile: path})
	assert.Error(t, err)
}

func TestValidateCurrencyConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     CurrencyConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultCurrencyConfig()},
		{name: "empty", cfg: CurrencyConfig{}, wantErr: true},
		{name: "blank_code", cfg: CurrencyConfig{Currencies: []CurrencySetting{{Code: " ", Precision: 2}}}, wantErr: true},
		{name: "negative_precision", cfg: CurrencyConfig{Currencies: []CurrencySetting{{Code: "USD", Precision: -2}}}, wantErr: true},
		{name: "precision_too_large", cfg: CurrencyConfig{Currencies: []CurrencySetting{{Code: "USD", Precision: 1 << 30}}}, wantErr: true},
		{name: "duplicate", cfg: CurrencyConfig{Currencies: []CurrencySetting{{Code: "usd", Precision: 2}, {Code: "USD", Precision: 2}}}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCurrencyConfig(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
