package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/talentgraph/ingest-engine/pkg/apperrors"
	"github.com/talentgraph/ingest-engine/pkg/graph"
	"github.com/talentgraph/ingest-engine/pkg/models"
)

// Result accumulates per-step outcomes for one profile document.
type Result struct {
	Succeeded []string
	Failed    []StepFailure
}

// OK reports whether every step succeeded.
func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// RecordResult is the per-record outcome returned to the caller, one per
// input document.
type RecordResult struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// Orchestrator runs mapped operation sequences against the graph writer.
type Orchestrator struct {
	mapper *Mapper
	writer *graph.Writer
	logger *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(mapper *Mapper, writer *graph.Writer, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{mapper: mapper, writer: writer, logger: logger.Named("ingest")}
}

// IngestRecord processes one payload document end to end: resolves the
// entity, maps it to an operation plan, runs the plan, and reduces the
// outcome to a RecordResult. Failures never cross record boundaries.
func (o *Orchestrator) IngestRecord(ctx context.Context, payload *models.Payload, tenantID string) RecordResult {
	if len(payload.Data) == 0 {
		return RecordResult{
			Message:    "Invalid profile: payload contains no entity",
			StatusCode: http.StatusBadRequest,
		}
	}
	profile := &payload.Data[0].Entity

	plan, err := o.mapper.Map(ctx, profile, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return RecordResult{
				Message:    fmt.Sprintf("Invalid profile: %v", err),
				StatusCode: http.StatusBadRequest,
			}
		}
		return RecordResult{
			Message:    fmt.Sprintf("Error mapping profile: %v", err),
			StatusCode: http.StatusInternalServerError,
		}
	}

	result := o.Run(ctx, plan.Statements)
	// Extraction failures recorded during mapping count against the record
	// the same way write failures do.
	result.Failed = append(plan.Failures, result.Failed...)

	o.logger.Info("record processed",
		zap.String("entity_uri", profile.EntityURI),
		zap.String("tenant_id", tenantID),
		zap.Int("succeeded_steps", len(result.Succeeded)),
		zap.Int("failed_steps", len(result.Failed)))

	if !result.OK() {
		first := result.Failed[0]
		msg := fmt.Sprintf("Error ingesting profile at step %s: %v", first.Step, first.Err)
		if extra := len(result.Failed) - 1; extra > 0 {
			msg = fmt.Sprintf("%s (%d more steps failed)", msg, extra)
		}
		return RecordResult{Message: msg, StatusCode: http.StatusInternalServerError}
	}

	return RecordResult{
		Message:    fmt.Sprintf("Successfully processed %s", profile.FirstName()),
		StatusCode: http.StatusOK,
	}
}

// Run executes statements strictly in order. A failed step is recorded and
// execution continues: steps are independent idempotent merges, so aborting
// would leave the same partial-but-valid graph state with no rollback
// benefit. A relationship merge whose endpoint node failed to create earlier
// simply matches nothing and no-ops; the earlier failure is still reported.
// A conflict-ignored write counts as success.
func (o *Orchestrator) Run(ctx context.Context, statements []graph.Statement) Result {
	var result Result
	for _, stmt := range statements {
		if _, err := o.writer.Execute(ctx, stmt); err != nil {
			result.Failed = append(result.Failed, StepFailure{Step: stmt.Name, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, stmt.Name)
	}
	return result
}
