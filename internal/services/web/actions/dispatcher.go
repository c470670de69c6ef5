// Package actions translates named user intents into auth engine calls.
//
// Every operation validates a typed request, calls the engine with the
// credential carried by its context, and returns an actionresult.Result.
// Engine rejections surface with the engine message; transport and
// unexpected failures are logged and surface as a per-operation fallback.
// Nothing escapes the dispatcher as an error or panic.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/metrics"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/revalidate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DashboardPath is the path revalidated after organization mutations.
const DashboardPath = "/dashboard"

const tracerName = "github.com/louisbranch/spawnbot/internal/services/web/actions"

// Failure codes set by the dispatcher itself.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotImplemented     = "NOT_IMPLEMENTED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
)

// Message is the payload of operations that only confirm completion.
type Message struct {
	Message string `json:"message"`
}

// Dispatcher runs named operations against the auth engine.
type Dispatcher struct {
	engine   engine.Engine
	notifier revalidate.Notifier
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	logger   *log.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithNotifier sets the revalidation notifier.
func WithNotifier(notifier revalidate.Notifier) Option {
	return func(d *Dispatcher) {
		if notifier != nil {
			d.notifier = notifier
		}
	}
}

// WithMetrics sets the action metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithTracerProvider sets the provider used for operation spans.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		if provider != nil {
			d.tracer = provider.Tracer(tracerName)
		}
	}
}

// WithLogger sets the logger for failure details.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher builds a dispatcher over eng. A nil engine fails every
// operation with its fallback message.
func NewDispatcher(eng engine.Engine, opts ...Option) *Dispatcher {
	if eng == nil {
		eng = engine.Unavailable()
	}
	d := &Dispatcher{
		engine:   eng,
		notifier: revalidate.Discard,
		tracer:   otel.Tracer(tracerName),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// operation describes how one named intent reports its outcome.
type operation struct {
	name       string
	fallback   string
	revalidate bool
}

// failure is a dispatcher-decided outcome that bypasses engine mapping.
type failure struct {
	message string
	code    string
}

func (f failure) Error() string { return f.message }

func fail(message, code string) error {
	return failure{message: message, code: code}
}

// run executes call under op's span, metrics and failure mapping. A panic in
// validate or call becomes actionresult.UnexpectedMessage.
func run[T any](ctx context.Context, d *Dispatcher, op operation, validate func() error, call func(context.Context) (T, error)) (result actionresult.Result[T]) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := d.tracer.Start(ctx, "actions."+op.name, trace.WithAttributes(attribute.String("action.name", op.name)))
	defer func() {
		outcome := metrics.OutcomeSuccess
		if recovered := recover(); recovered != nil {
			d.logger.Printf("actions: op=%s panic=%v stack=%s", op.name, recovered, strings.TrimSpace(string(debug.Stack())))
			result = actionresult.Failure[T](actionresult.UnexpectedMessage)
			outcome = metrics.OutcomePanic
		} else if !result.OK() {
			outcome = metrics.OutcomeFailure
		}
		if result.OK() {
			span.SetStatus(otelcodes.Ok, "")
		} else {
			span.SetAttributes(attribute.String("action.error_code", result.Code()))
			span.SetStatus(otelcodes.Error, result.Message())
		}
		span.SetAttributes(attribute.String("action.outcome", outcome))
		span.End()
		d.metrics.RecordAction(op.name, outcome)
		if op.revalidate {
			d.notifier.Revalidate(ctx, DashboardPath)
		}
	}()

	if validate != nil {
		if err := validate(); err != nil {
			return validationFailure[T](err, op.fallback)
		}
	}
	value, err := call(ctx)
	if err != nil {
		span.RecordError(err)
		return failureFor[T](d, op, err)
	}
	return actionresult.Success(value)
}

// failureFor maps a call error onto the envelope.
func failureFor[T any](d *Dispatcher, op operation, err error) actionresult.Result[T] {
	var decided failure
	if errors.As(err, &decided) {
		return actionresult.Failure[T](decided.message, actionresult.WithCode(decided.code))
	}
	if engineErr, ok := engine.AsError(err); ok {
		message := strings.TrimSpace(engineErr.Message)
		if message == "" {
			message = op.fallback
		}
		return actionresult.Failure[T](message, actionresult.WithCode(engineErr.Code))
	}
	d.logger.Printf("actions: op=%s err=%v", op.name, err)
	return actionresult.Failure[T](op.fallback)
}

// requireCredential rejects operations that need a signed-in session.
func requireCredential(ctx context.Context, fallback string) error {
	if _, ok := engine.CredentialFromContext(ctx); !ok {
		return fail(fallback, CodeUnauthorized)
	}
	return nil
}

func wrapEngine(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
