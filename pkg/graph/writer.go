// Package graph executes idempotent upsert statements against the Neo4j
// property graph.
package graph

import (
	"context"
	"errors"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/talentgraph/ingest-engine/pkg/logging"
)

// constraintValidationFailed is the server code for a uniqueness-constraint
// violation on a merge-by-key statement. Merge semantics already guarantee
// idempotency, so this indicates benign concurrent creation.
const constraintValidationFailed = "Neo.ClientError.Schema.ConstraintValidationFailed"

// Statement is one merge-by-key upsert: a fixed Cypher template plus its
// parameter map. Name identifies the statement in logs and step results.
type Statement struct {
	Name   string
	Query  string
	Params map[string]any
}

// Runner executes a single Cypher query and returns a fully-buffered result.
// It abstracts the driver so the Writer can be tested without a database.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Neo4jRunner is the driver-backed Runner. ExecuteQuery manages sessions and
// transactions per call; each statement is independent, no implicit
// transaction spans multiple calls.
type Neo4jRunner struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jRunner creates a Runner over a connected driver.
func NewNeo4jRunner(uri, user, password, dbName string) (*Neo4jRunner, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}
	return &Neo4jRunner{driver: driver, dbName: dbName}, nil
}

// Verify checks connectivity to the graph store.
func (r *Neo4jRunner) Verify(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

// Close releases the underlying driver.
func (r *Neo4jRunner) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Run implements Runner.
func (r *Neo4jRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(
		ctx,
		r.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.dbName),
	)
}

// Status is the non-error outcome of executing a statement.
type Status int

const (
	// StatusApplied means the statement executed normally.
	StatusApplied Status = iota
	// StatusConflictIgnored means the store reported a uniqueness-constraint
	// violation on a merge-by-key statement; the entity already exists, so
	// the write is treated as success. Modeled as a distinct variant so
	// callers cannot mistake it for a failure.
	StatusConflictIgnored
	// StatusFailed accompanies a non-nil error; the statement did not apply.
	StatusFailed
)

// Writer executes statements with isolated per-statement error handling.
type Writer struct {
	runner  Runner
	timeout time.Duration
	logger  *zap.Logger
}

// NewWriter creates a Writer. timeout bounds each statement execution;
// 0 disables the bound.
func NewWriter(runner Runner, timeout time.Duration, logger *zap.Logger) *Writer {
	return &Writer{
		runner:  runner,
		timeout: timeout,
		logger:  logger.Named("graph"),
	}
}

// Execute runs one statement. A uniqueness-constraint violation is swallowed,
// logged, and reported as StatusConflictIgnored. Any other failure is
// surfaced as StatusFailed with a *WriteError carrying the statement name.
func (w *Writer) Execute(ctx context.Context, stmt Statement) (Status, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if _, err := w.runner.Run(ctx, stmt.Query, stmt.Params); err != nil {
		var neoErr *neo4j.Neo4jError
		if errors.As(err, &neoErr) && neoErr.Code == constraintValidationFailed {
			w.logger.Info("constraint conflict ignored, entity already exists",
				zap.String("statement", stmt.Name))
			return StatusConflictIgnored, nil
		}

		w.logger.Error("statement failed",
			zap.String("statement", stmt.Name),
			zap.String("error", logging.SanitizeError(err)))
		return StatusFailed, &WriteError{Statement: stmt.Name, Cause: err}
	}

	return StatusApplied, nil
}
