package agents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coreerrors "github.com/transvia/copiloto/core/errors"
)

// Middleware wraps a chat capability with cross-cutting behavior. Applied
// uniformly at construction time; agents themselves stay plain data.
type Middleware func(ChatFunc) ChatFunc

// Apply wraps chat with middlewares so the first listed runs outermost.
func Apply(chat ChatFunc, middlewares ...Middleware) ChatFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		chat = middlewares[i](chat)
	}
	return chat
}

// WithLogging records each call's duration and outcome.
func WithLogging(name string, logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatFunc) ChatFunc {
		return func(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
			start := time.Now()
			result, err := next(ctx, req)
			if err != nil {
				logger.Warn("agent chat failed",
					"agent", name,
					"duration", time.Since(start),
					"error", err,
				)
				return nil, err
			}
			logger.Info("agent chat completed",
				"agent", name,
				"duration", time.Since(start),
				"tools", len(result.ToolsInvoked),
			)
			return result, nil
		}
	}
}

// WithTimeout bounds each delegated call. A deadline hit maps to the same
// typed failure as a hard provider error.
func WithTimeout(d time.Duration) Middleware {
	return func(next ChatFunc) ChatFunc {
		return func(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
			if d <= 0 {
				return next(ctx, req)
			}
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}

// WithRecovery converts a panicking chat capability into a typed failure so
// one bad provider call cannot take down the process.
func WithRecovery(name string) Middleware {
	return func(next ChatFunc) ChatFunc {
		return func(ctx context.Context, req *ChatRequest) (result *ChatResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = coreerrors.AgentExecution(name, fmt.Errorf("panic: %v", r))
				}
			}()
			return next(ctx, req)
		}
	}
}
