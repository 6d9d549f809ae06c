package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/logging"
)

// taskRun carries the per-run instrumentation handles into a task function.
// metrics is nil when instrumentation is disabled.
type taskRun struct {
	metrics    *instrumentation.Metrics
	invocation *instrumentation.Invocation
}

// runTask executes a CLI task under signal handling and instrumentation.
// Every task command funnels through here so that interrupts, tracing,
// metrics, and audit logging behave the same way across tasks.
func runTask(taskName string, fn func(ctx context.Context, run *taskRun) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("Failed to shutdown instrumentation", logging.Err(err))
		}
	}()

	ctx, span := instrumentation.StartTaskSpan(ctx, taskName)
	defer span.End()

	run := &taskRun{
		invocation: instrumentation.NewTaskInvocation(taskName).WithSpanContext(ctx),
	}
	if provider.Enabled() {
		run.metrics = provider.Metrics()
	}

	taskErr := fn(ctx, run)

	status := instrumentation.StatusSuccess
	if taskErr != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, taskErr)
		run.invocation.CompleteWithError(taskErr)
	} else {
		instrumentation.SetSpanSuccess(span)
		run.invocation.CompleteSuccess()
	}

	if provider.Enabled() {
		provider.Metrics().RecordTaskRun(ctx, taskName, status)
		instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging).LogInvocation(run.invocation)
	}
	slog.Debug("task finished", slog.String("task", taskName), logging.Status(status))

	return taskErr
}
