// Package mutation applies batched role changes to a member. Every add or
// remove is attempted independently: one rejected role never aborts the
// rest, and nothing is retried. Callers must treat the returned Result, not
// the requested diff, as ground truth.
package mutation

import (
	"context"
	"log/slog"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

// Op names the direction of a single role mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Failure records one role that the platform rejected, with the reason.
type Failure struct {
	RoleID string
	Op     Op
	Err    error
}

// Result is the realized diff of a batch: what actually changed, plus the
// per-role failures for observability.
type Result struct {
	Added   []string
	Removed []string
	Failed  []Failure
}

// Changed reports whether anything was actually mutated.
func (r Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Merge folds another result into this one.
func (r *Result) Merge(other Result) {
	r.Added = append(r.Added, other.Added...)
	r.Removed = append(r.Removed, other.Removed...)
	r.Failed = append(r.Failed, other.Failed...)
}

// Engine drives a gateway.RoleManager.
type Engine struct {
	roles gateway.RoleManager
	log   *slog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(roles gateway.RoleManager, log *slog.Logger) *Engine {
	return &Engine{roles: roles, log: log}
}

// ApplyRoleDiff removes then adds the given roles on the member. reason is
// forwarded to the platform audit log.
func (e *Engine) ApplyRoleDiff(ctx context.Context, guildID, userID string, toAdd, toRemove []string, reason string) Result {
	var res Result
	for _, roleID := range toRemove {
		if err := e.roles.RemoveRole(ctx, guildID, userID, roleID, reason); err != nil {
			res.Failed = append(res.Failed, Failure{RoleID: roleID, Op: OpRemove, Err: err})
			e.log.Debug("role remove rejected",
				slog.String("guild", guildID),
				slog.String("user", userID),
				slog.String("role", roleID),
				slog.Any("error", err))
			continue
		}
		res.Removed = append(res.Removed, roleID)
	}
	for _, roleID := range toAdd {
		if err := e.roles.AddRole(ctx, guildID, userID, roleID, reason); err != nil {
			res.Failed = append(res.Failed, Failure{RoleID: roleID, Op: OpAdd, Err: err})
			e.log.Debug("role add rejected",
				slog.String("guild", guildID),
				slog.String("user", userID),
				slog.String("role", roleID),
				slog.Any("error", err))
			continue
		}
		res.Added = append(res.Added, roleID)
	}
	return res
}
