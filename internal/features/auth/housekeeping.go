package auth

import (
	"context"
	"log/slog"
	"time"
)

// attemptRetention is how long login attempts are kept for auditing.
const attemptRetention = 24 * time.Hour

// Prune removes sessions past the idle limit and login attempts past retention.
// Pruned rows lie outside every window the gate reads.
func (g *Gate) Prune(ctx context.Context) error {
	now := g.now()
	retention := attemptRetention
	if g.policy.FailureWindow > retention {
		retention = g.policy.FailureWindow
	}

	sessions, attempts, err := g.store.Prune(ctx, now.Add(-g.policy.SessionIdle), now.Add(-retention))
	if err != nil {
		return err
	}
	if sessions > 0 || attempts > 0 {
		g.logger.InfoContext(ctx, "auth records pruned", slog.Int64("sessions", sessions), slog.Int64("attempts", attempts))
	}
	return nil
}

// PruneJob runs Gate.Prune on the background scheduler.
type PruneJob struct {
	gate *Gate
}

// NewPruneJob wraps the gate for scheduling.
func NewPruneJob(gate *Gate) *PruneJob {
	return &PruneJob{gate: gate}
}

// Name returns the job name.
func (j *PruneJob) Name() string { return "auth_prune" }

// Execute prunes once.
func (j *PruneJob) Execute(ctx context.Context) error {
	return j.gate.Prune(ctx)
}
