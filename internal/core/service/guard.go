package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/DanielPopoola/idempotency-gateway/internal/core/service"

// Guard decides whether a request carrying an idempotency key may run.
// It keeps no local state: the store's set-if-absent is the only serialization point,
// so any number of gateway instances can share one store.
type Guard struct {
	store    ports.ClaimStore
	recorder ports.AdmissionRecorder
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewGuard(store ports.ClaimStore, recorder ports.AdmissionRecorder, logger *slog.Logger) *Guard {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		store:    store,
		recorder: recorder,
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
}

// Admit returns nil when the request may proceed, a DUPLICATE_IDEMPOTENCY_KEY
// DomainError when the key is already claimed, and a STORE_FAILURE DomainError
// when the store could not answer. Keys that do not qualify are admitted
// without contacting the store.
func (g *Guard) Admit(ctx context.Context, key string) error {
	if !domain.Qualifies(key) {
		g.recorder.RecordAdmission(ctx, domain.OutcomeAllowed)
		return nil
	}

	err := g.claim(ctx, key)
	g.recorder.RecordAdmission(ctx, domain.OutcomeOf(err))
	return err
}

func (g *Guard) claim(ctx context.Context, key string) error {
	claim := domain.NewClaim(key)
	storeName := g.store.Name()

	ctx, span := g.tracer.Start(ctx, "idempotency.claim",
		trace.WithAttributes(attribute.String("idempotency.store", storeName)),
	)
	defer span.End()

	start := time.Now()
	result, err := g.store.SetIfAbsent(ctx, claim.Key, claim.Value, claim.TTL)
	g.recorder.RecordStoreDuration(ctx, storeName, time.Since(start).Seconds())

	if err != nil {
		fault := domain.NewStoreFailureError(storeName, err)
		span.RecordError(fault)
		span.SetStatus(codes.Error, fault.Error())
		g.logger.ErrorContext(ctx, "idempotency claim failed",
			"store", storeName,
			"error", err,
		)
		return fault
	}

	span.SetAttributes(attribute.String("idempotency.result", result.String()))

	switch result {
	case domain.ClaimCreated:
		g.logger.DebugContext(ctx, "idempotency key claimed", "store", storeName)
		return nil
	case domain.ClaimAlreadyExists:
		g.logger.InfoContext(ctx, "duplicate idempotency key rejected",
			"store", storeName,
			"idempotency_key", key,
		)
		return domain.NewDuplicateKeyError(key)
	default:
		fault := domain.NewStoreFailureError(storeName, fmt.Errorf("unexpected claim result %d", int(result)))
		span.SetStatus(codes.Error, fault.Error())
		g.logger.ErrorContext(ctx, "idempotency claim returned unknown result",
			"store", storeName,
			"result", int(result),
		)
		return fault
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordAdmission(context.Context, domain.Outcome) {}
func (nopRecorder) RecordStoreDuration(context.Context, string, float64) {}
