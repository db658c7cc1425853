package event

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Emit invokes the listeners for key in priority order with args.
//
// The listener list is captured before the first listener runs; listeners added
// or removed during the emission only affect later emissions. Emit returns false
// as soon as a listener returns StopPropagation, and (false, err) as soon as a
// listener returns an error, with err exactly as the listener returned it.
// Otherwise, including when there are no listeners, it returns true.
func (r *Registry) Emit(ctx context.Context, key Key, args ...any) (bool, error) {
	return r.emit(ctx, key, nil, args)
}

// EmitGated is Emit with a continue gate. After each listener except the last,
// gate is called; if it returns false the emission ends and EmitGated returns
// true. A listener returning StopPropagation or an error still ends the emission
// before the gate is consulted for that step. A nil gate behaves like Emit.
func (r *Registry) EmitGated(ctx context.Context, key Key, gate ContinueFunc, args ...any) (bool, error) {
	return r.emit(ctx, key, gate, args)
}

func (r *Registry) emit(ctx context.Context, key Key, gate ContinueFunc, args []any) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	listeners := r.ListenersFor(key)

	ctx, span := r.config.tracer.Start(ctx, "event.emit",
		trace.WithAttributes(
			attribute.String("event.key", string(key)),
			attribute.Int("event.listeners", len(listeners)),
			attribute.Bool("event.gated", gate != nil),
		),
	)
	defer span.End()

	r.emissions.Add(1)

	// A panicking listener unwinds through the deferred call below with the
	// emission counted as failed.
	invoked := 0
	outcome := OutcomeFailed
	defer func() {
		span.SetAttributes(
			attribute.Int("event.invoked", invoked),
			attribute.String("event.outcome", outcome),
		)
		r.observeOutcome(outcome)
	}()

	for i, l := range listeners {
		invoked++
		r.invocations.Add(1)
		r.config.metrics.observeInvocation()

		res, herr := l.Handle(ctx, args...)
		if herr != nil {
			outcome = OutcomeFailed
			span.RecordError(herr)
			span.SetStatus(codes.Error, herr.Error())
			r.logger.Debug("listener failed",
				zap.String("key", string(key)),
				zap.Int("position", i),
				zap.Error(herr),
			)
			return false, herr
		}
		if res == StopPropagation {
			outcome = OutcomeAborted
			r.logger.Debug("propagation stopped by listener",
				zap.String("key", string(key)),
				zap.Int("position", i),
			)
			return false, nil
		}

		// Nothing is left to gate after the final listener.
		if gate != nil && i < len(listeners)-1 && !gate() {
			outcome = OutcomeStopped
			r.logger.Debug("propagation stopped by gate",
				zap.String("key", string(key)),
				zap.Int("position", i),
			)
			return true, nil
		}
	}

	outcome = OutcomeCompleted
	return true, nil
}

func (r *Registry) observeOutcome(outcome string) {
	switch outcome {
	case OutcomeCompleted:
		r.completed.Add(1)
	case OutcomeStopped:
		r.stopped.Add(1)
	case OutcomeAborted:
		r.aborted.Add(1)
	case OutcomeFailed:
		r.failed.Add(1)
	}
	r.config.metrics.observeEmission(outcome)
}
