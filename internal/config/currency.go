package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/smallbiznis/invoicesum/internal/money"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// CurrencySetting is the rounding precision configured for a currency.
type CurrencySetting struct {
	Code      string `mapstructure:"code"`
	Precision int    `mapstructure:"precision"`
}

// CurrencyConfig is the currency table loaded from currencies.yml.
type CurrencyConfig struct {
	Currencies []CurrencySetting `mapstructure:"currencies"`
}

func DefaultCurrencyConfig() CurrencyConfig {
	return CurrencyConfig{
		Currencies: []CurrencySetting{
			{Code: "USD", Precision: 2},
			{Code: "EUR", Precision: 2},
			{Code: "GBP", Precision: 2},
			{Code: "CAD", Precision: 2},
			{Code: "AUD", Precision: 2},
			{Code: "CHF", Precision: 2},
			{Code: "BHD", Precision: 3},
			{Code: "KWD", Precision: 3},
			{Code: "OMR", Precision: 3},
		},
	}
}

type CurrencyConfigHolder struct {
	current atomic.Value // holds CurrencyConfig
}

// NewCurrencyConfigHolder reads currencies.yml (or CURRENCY_FILE) and keeps
// watching it. Without a file the built-in table is used.
func NewCurrencyConfigHolder(appCfg Config) (*CurrencyConfigHolder, error) {
	v := viper.New()

	if appCfg.CurrencyFile != "" {
		v.SetConfigFile(appCfg.CurrencyFile)
	} else {
		v.SetConfigName("currencies")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/invoicesum")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("INVOICESUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
	}

	cfg := DefaultCurrencyConfig()
	if watch {
		var loaded CurrencyConfig
		if err := v.Unmarshal(&loaded); err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := validateCurrencyConfig(cfg); err != nil {
		return nil, err
	}

	holder := &CurrencyConfigHolder{}
	holder.current.Store(normalizeCurrencyConfig(cfg))

	if watch {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated CurrencyConfig
			if err := v.Unmarshal(&updated); err != nil {
				zap.L().Warn("currency config reload failed", zap.Error(err))
				return
			}
			if err := validateCurrencyConfig(updated); err != nil {
				zap.L().Warn("invalid currency config ignored", zap.Error(err))
				return
			}
			holder.current.Store(normalizeCurrencyConfig(updated))
			zap.L().Info("currency config reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

// NewStaticCurrencyConfigHolder serves a fixed table.
func NewStaticCurrencyConfigHolder(cfg CurrencyConfig) (*CurrencyConfigHolder, error) {
	if err := validateCurrencyConfig(cfg); err != nil {
		return nil, err
	}
	holder := &CurrencyConfigHolder{}
	holder.current.Store(normalizeCurrencyConfig(cfg))
	return holder, nil
}

func (h *CurrencyConfigHolder) Get() CurrencyConfig {
	return h.current.Load().(CurrencyConfig)
}

// Lookup finds a currency by code, case-insensitively.
func (h *CurrencyConfigHolder) Lookup(code string) (CurrencySetting, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range h.Get().Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencySetting{}, false
}

func normalizeCurrencyConfig(cfg CurrencyConfig) CurrencyConfig {
	out := CurrencyConfig{Currencies: make([]CurrencySetting, 0, len(cfg.Currencies))}
	for _, c := range cfg.Currencies {
		c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
		out.Currencies = append(out.Currencies, c)
	}
	return out
}

func validateCurrencyConfig(cfg CurrencyConfig) error {
	if len(cfg.Currencies) == 0 {
		return errors.New("currencies cannot be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Currencies))
	for _, c := range cfg.Currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" {
			return errors.New("currency code cannot be empty")
		}
		if c.Precision < 0 || c.Precision > money.MaxPrecision {
			return fmt.Errorf("currency %s: precision must be between 0 and %d", code, money.MaxPrecision)
		}
		if _, ok := seen[code]; ok {
			return fmt.Errorf("currency %s is declared twice", code)
		}
		seen[code] = struct{}{}
	}
	return nil
}
