package calculation

import (
	"github.com/smallbiznis/invoicesum/internal/calculation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("calculation.service",
	fx.Provide(service.NewCurrencyResolver),
	fx.Provide(service.NewService),
)
