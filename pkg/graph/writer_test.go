package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRunner maps query substrings to errors so individual statements can be
// made to fail.
type fakeRunner struct {
	errs    map[string]error // keyed on exact query
	queries []string
	params  []map[string]any
}

func (f *fakeRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	f.queries = append(f.queries, query)
	f.params = append(f.params, params)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return &neo4j.EagerResult{}, nil
}

func TestWriter_Execute_Success(t *testing.T) {
	runner := &fakeRunner{}
	w := NewWriter(runner, 0, zap.NewNop())

	status, err := w.Execute(context.Background(), Statement{
		Name:   "merge_tenant",
		Query:  "MERGE (t:Tenant {name: $tenantId})",
		Params: map[string]any{"tenantId": "acme"},
	})

	require.NoError(t, err)
	assert.Equal(t, StatusApplied, status)
	require.Len(t, runner.queries, 1)
	assert.Equal(t, map[string]any{"tenantId": "acme"}, runner.params[0])
}

func TestWriter_Execute_ConstraintConflictSwallowed(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"Q": &neo4j.Neo4jError{
			Code: "Neo.ClientError.Schema.ConstraintValidationFailed",
			Msg:  "node already exists",
		},
	}}
	w := NewWriter(runner, 0, zap.NewNop())

	status, err := w.Execute(context.Background(), Statement{Name: "merge_user", Query: "Q"})

	require.NoError(t, err, "merge semantics already guarantee idempotency")
	assert.Equal(t, StatusConflictIgnored, status)
}

func TestWriter_Execute_OtherServerErrorSurfaced(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"Q": &neo4j.Neo4jError{
			Code: "Neo.ClientError.Statement.SyntaxError",
			Msg:  "bad cypher",
		},
	}}
	w := NewWriter(runner, 0, zap.NewNop())

	status, err := w.Execute(context.Background(), Statement{Name: "merge_user", Query: "Q"})

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "merge_user", writeErr.Statement)
	assert.Equal(t, StatusFailed, status)
}

func TestWriter_Execute_TransportErrorSurfaced(t *testing.T) {
	cause := errors.New("connection refused")
	runner := &fakeRunner{errs: map[string]error{"Q": cause}}
	w := NewWriter(runner, 0, zap.NewNop())

	status, err := w.Execute(context.Background(), Statement{
		Name:   "user_knows_tech",
		Query:  "Q",
		Params: map[string]any{"entityUri": "http://entity/u1"},
	})

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "user_knows_tech", writeErr.Statement)
	assert.Equal(t, StatusFailed, status)
	assert.True(t, errors.Is(err, cause))
	// Statement identity only; the parameter map stays out of the error.
	assert.NotContains(t, err.Error(), "http://entity/u1")
}
