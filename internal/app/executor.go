package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmedtravel/playbook/internal/platform/logging"
)

// Stage names one step of a Pipeline. Stages run in order:
// validate, perform, verify, archive, respond. Nothing is persisted before
// verify has confirmed what perform did.
type Stage string

const (
	StageValidate Stage = "validate"
	StagePerform  Stage = "perform"
	StageVerify   Stage = "verify"
	StageArchive  Stage = "archive"
	StageRespond  Stage = "respond"
)

// StageError records the stage a pipeline stopped at. It unwraps to the
// cause so domain error checks still work.
type StageError struct {
	Pipeline string
	Stage    Stage
	Cause    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Pipeline, e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// FailedStage extracts the stage from a pipeline error.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}

	return "", false
}

// Pipeline is a staged operation over input I. P is what perform produced,
// V is the verified state and O is the caller's result. Nil stages are
// skipped.
type Pipeline[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Run executes p against input, logging each stage on the request logger
// when ctx carries one.
func Run[I, P, V, O any](ctx context.Context, fallback *slog.Logger, p Pipeline[I, P, V, O], input I) (O, error) {
	var zero O

	logger := requestLogger(ctx, fallback).With(slog.String("pipeline", p.Name))
	start := time.Now()

	fail := func(stage Stage, err error) (O, error) {
		level := slog.LevelError
		if stage == StageValidate {
			level = slog.LevelWarn
		}

		logger.Log(ctx, level, "pipeline stage failed",
			slog.String("stage", string(stage)),
			slog.Any("error", err),
		)

		return zero, &StageError{Pipeline: p.Name, Stage: stage, Cause: err}
	}

	if p.Validate != nil {
		if err := p.Validate(ctx, input); err != nil {
			return fail(StageValidate, err)
		}
	}

	var performed P

	if p.Perform != nil {
		var err error

		performed, err = p.Perform(ctx, input)
		if err != nil {
			return fail(StagePerform, err)
		}
	}

	var verified V

	if p.Verify != nil {
		var err error

		verified, err = p.Verify(ctx, input, performed)
		if err != nil {
			return fail(StageVerify, err)
		}
	}

	if p.Archive != nil {
		if err := p.Archive(ctx, input, verified); err != nil {
			return fail(StageArchive, err)
		}
	}

	result := zero

	if p.Respond != nil {
		var err error

		result, err = p.Respond(ctx, input, verified)
		if err != nil {
			return fail(StageRespond, err)
		}
	}

	logger.InfoContext(ctx, "pipeline completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// requestLogger prefers the request-scoped logger carried by ctx.
func requestLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok && logger != nil {
		return logger
	}

	if fallback != nil {
		return fallback
	}

	return slog.Default()
}
