package service

import (
	"context"
	"fmt"
	"strings"

	calculationdomain "github.com/smallbiznis/invoicesum/internal/calculation/domain"
	"github.com/smallbiznis/invoicesum/internal/config"
)

// CurrencyResolver serves currency precisions from the configured table.
type CurrencyResolver struct {
	holder *config.CurrencyConfigHolder
	cfg    config.Config
}

func NewCurrencyResolver(cfg config.Config, holder *config.CurrencyConfigHolder) calculationdomain.CurrencyResolver {
	return &CurrencyResolver{holder: holder, cfg: cfg}
}

func (r *CurrencyResolver) Resolve(ctx context.Context, code string) (calculationdomain.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	setting, ok := r.holder.Lookup(code)
	if !ok {
		return calculationdomain.Currency{}, fmt.Errorf("%w: %s", calculationdomain.ErrCurrencyNotFound, code)
	}
	return calculationdomain.Currency{Code: setting.Code, Precision: setting.Precision}, nil
}

// Default returns the configured default currency. A default code missing
// from the table falls back to DEFAULT_CURRENCY_PRECISION.
func (r *CurrencyResolver) Default(ctx context.Context) calculationdomain.Currency {
	code := strings.ToUpper(strings.TrimSpace(r.cfg.DefaultCurrency))
	if setting, ok := r.holder.Lookup(code); ok {
		return calculationdomain.Currency{Code: setting.Code, Precision: setting.Precision}
	}
	return calculationdomain.Currency{Code: code, Precision: r.cfg.DefaultPrecision}
}
