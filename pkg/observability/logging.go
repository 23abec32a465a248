package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// LogHooks returns hooks that log every builder event to logger.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnBuildStart: func(ctx context.Context, e *domain.BuildEvent) {
			logger.InfoContext(ctx, "build_start", "source", e.Source, "nodes", e.Nodes)
		},
		OnBuildDone: func(ctx context.Context, e *domain.BuildEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "build_done", "source", e.Source, "duration", e.Duration, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "build_done", "source", e.Source, "seed", e.Seed, "duration", e.Duration)
		},
		OnNodeBuilt: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_built",
				"node", e.Node,
				"spec", e.Spec.String(),
				"target", e.Target,
				"kind", e.Kind.String(),
			)
		},
		OnNodeFailed: func(ctx context.Context, e *domain.NodeEvent) {
			logger.WarnContext(ctx, "node_failed", "node", e.Node, "target", e.Target, "error", e.Err)
		},
	}
}
