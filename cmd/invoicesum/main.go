package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicesum/internal/calculation"
	calculationdomain "github.com/smallbiznis/invoicesum/internal/calculation/domain"
	"github.com/smallbiznis/invoicesum/internal/config"
	"github.com/smallbiznis/invoicesum/internal/observability"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type options struct {
	file     string
	currency string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.file, "file", "", "document JSON file, - or empty for stdin")
	flag.StringVar(&opts.currency, "currency", "", "currency code used for rounding precision")
	flag.Parse()

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		calculation.Module,

		fx.Supply(opts),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(run),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, svc calculationdomain.Service, log *zap.Logger, opts options) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := calculate(context.Background(), svc, opts, os.Stdin, os.Stdout); err != nil {
					log.Error("calculation failed", zap.Error(err))
					code = 1
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func calculate(ctx context.Context, svc calculationdomain.Service, opts options, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if opts.file != "" && opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var doc calculationdomain.Document
	if err := json.NewDecoder(in).Decode(&doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	resp, err := svc.Calculate(ctx, calculationdomain.CalculateRequest{
		Document:     &doc,
		CurrencyCode: opts.currency,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
