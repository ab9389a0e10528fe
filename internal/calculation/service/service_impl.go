package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	calculationdomain "github.com/smallbiznis/invoicesum/internal/calculation/domain"
	"github.com/smallbiznis/invoicesum/internal/calculation/engine"
	"github.com/smallbiznis/invoicesum/internal/observability/logger"
	"github.com/smallbiznis/invoicesum/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Currencies calculationdomain.CurrencyResolver
	Metrics    *metrics.Metrics            `optional:"true"`
	Prometheus *metrics.CalculationMetrics `optional:"true"`
}

type Service struct {
	log    *zap.Logger
	genID  *snowflake.Node
	tracer trace.Tracer

	currencies calculationdomain.CurrencyResolver
	metrics    *metrics.Metrics
	prometheus *metrics.CalculationMetrics
}

func NewService(p ServiceParam) calculationdomain.Service {
	return &Service{
		log:    p.Log.Named("calculation.service"),
		genID:  p.GenID,
		tracer: otel.Tracer("calculation"),

		currencies: p.Currencies,
		metrics:    p.Metrics,
		prometheus: p.Prometheus,
	}
}

// Calculate runs the totals pipeline on a copy of the request document.
func (s *Service) Calculate(ctx context.Context, req calculationdomain.CalculateRequest) (calculationdomain.CalculateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "calculation.Calculate")
	defer span.End()

	if req.Document == nil {
		return s.fail(ctx, span, "", calculationdomain.ErrInvalidDocument)
	}

	kind := req.Document.Kind.Normalize()
	if !kind.Valid() {
		return s.fail(ctx, span, string(kind), fmt.Errorf("%w: %s", calculationdomain.ErrInvalidDocumentKind, kind))
	}

	currency, err := s.resolveCurrency(ctx, req)
	if err != nil {
		return s.fail(ctx, span, string(kind), err)
	}

	doc := cloneDocument(req.Document)
	doc.Kind = kind

	span.SetAttributes(
		attribute.String("document.kind", string(kind)),
		attribute.Int("document.line_items", len(doc.LineItems)),
		attribute.String("currency.code", currency.Code),
		attribute.Int("currency.precision", currency.DigitCount()),
	)

	started := time.Now()
	sum := engine.New(doc, currency).Build()
	elapsed := time.Since(started)

	resp := calculationdomain.CalculateResponse{
		ID:                s.genID.Generate(),
		Kind:              kind,
		Currency:          currency,
		SubTotal:          sum.SubTotal(),
		TotalDiscount:     sum.TotalDiscount(),
		TotalTaxes:        sum.TotalTaxes(),
		TotalCustomValues: sum.TotalCustomValues(),
		Total:             sum.Total(),
		Amount:            doc.Amount,
		Balance:           doc.Balance,
		BalanceDue:        sum.BalanceDue(),
		TaxMap:            sum.TaxMap(),
		DocumentTaxes:     sum.DocumentTaxes(),
		LineItems:         doc.LineItems,
	}

	s.metrics.RecordCalculation(ctx, string(kind), currency.Code)
	s.prometheus.ObserveCalculation(string(kind), len(doc.LineItems), elapsed)

	logger.WithContext(ctx, s.log).Debug("document calculated",
		zap.String("calculation_id", resp.ID.String()),
		zap.String("kind", string(kind)),
		zap.Int("line_items", len(doc.LineItems)),
		zap.Float64("amount", resp.Amount),
		zap.Float64("total_taxes", resp.TotalTaxes),
		zap.Float64("balance", resp.Balance),
		zap.Duration("elapsed", elapsed),
	)

	return resp, nil
}

func (s *Service) resolveCurrency(ctx context.Context, req calculationdomain.CalculateRequest) (calculationdomain.Currency, error) {
	if req.Currency != nil {
		return *req.Currency, nil
	}
	if req.CurrencyCode != "" {
		return s.currencies.Resolve(ctx, req.CurrencyCode)
	}
	return s.currencies.Default(ctx), nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, kind string, err error) (calculationdomain.CalculateResponse, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	s.metrics.RecordCalculationError(ctx, reason(err))
	s.prometheus.IncCalculationError(kind)

	logger.WithContext(ctx, s.log).Warn("calculation rejected", zap.Error(err))
	return calculationdomain.CalculateResponse{}, err
}

func reason(err error) string {
	for _, sentinel := range []error{
		calculationdomain.ErrInvalidDocument,
		calculationdomain.ErrInvalidDocumentKind,
		calculationdomain.ErrCurrencyNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "unknown"
}

func cloneDocument(doc *calculationdomain.Document) *calculationdomain.Document {
	clone := *doc
	clone.LineItems = append([]calculationdomain.LineItem(nil), doc.LineItems...)
	return &clone
}
