package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/talentgraph/ingest-engine/pkg/ingest"
	"github.com/talentgraph/ingest-engine/pkg/models"
)

// recordIngester processes one payload document. Satisfied by
// *ingest.Orchestrator; an interface so tests can stub it.
type recordIngester interface {
	IngestRecord(ctx context.Context, payload *models.Payload, tenantID string) ingest.RecordResult
}

// IngestHandler accepts batches of profile payloads on POST /import.
type IngestHandler struct {
	orchestrator  recordIngester
	defaultTenant string
	logger        *zap.Logger
}

// NewIngestHandler creates an IngestHandler. defaultTenant is used when a
// request carries no tenant_id query parameter.
func NewIngestHandler(orchestrator recordIngester, defaultTenant string, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		orchestrator:  orchestrator,
		defaultTenant: defaultTenant,
		logger:        logger.Named("handler"),
	}
}

// RegisterRoutes registers the ingest route on the given mux.
func (h *IngestHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/import", h.Import)
}

// Import handles POST /import: a JSON list of profile payload documents,
// ingested one by one under the resolved tenant. The response is a list of
// per-record results, one per input document, in input order; a malformed or
// partially-failing document never affects its siblings.
func (h *IngestHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var rawDocs []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&rawDocs); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_payload",
			"expected a JSON list of profile documents")
		return
	}

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		tenantID = h.defaultTenant
	}

	h.logger.Debug("import batch received",
		zap.Int("documents", len(rawDocs)),
		zap.String("tenant_id", tenantID))

	results := make([]ingest.RecordResult, 0, len(rawDocs))
	for _, raw := range rawDocs {
		var payload models.Payload
		if err := json.Unmarshal(raw, &payload); err != nil {
			results = append(results, ingest.RecordResult{
				Message:    "Invalid payload: not a profile document",
				StatusCode: http.StatusBadRequest,
			})
			continue
		}
		results = append(results, h.orchestrator.IngestRecord(r.Context(), &payload, tenantID))
	}

	if err := WriteJSON(w, http.StatusOK, results); err != nil {
		h.logger.Error("Failed to encode import response", zap.Error(err))
	}
}
