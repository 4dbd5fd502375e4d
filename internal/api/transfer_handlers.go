package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/linkstashapp/linkstash-server/internal/errors"
	"github.com/linkstashapp/linkstash-server/internal/service"
)

func (s *Server) registerTransferRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Export bookmarks",
		Description: "Downloads the user's full graph as a JSON document",
		Tags:        []string{"Transfer"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleExport)

	huma.Register(s.api, huma.Operation{
		OperationID: "importBookmarks",
		Method:      http.MethodPost,
		Path:        "/api/v1/import",
		Summary:     "Import bookmarks",
		Description: "Replays an export document under the current user with fresh IDs",
		Tags:        []string{"Transfer"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleImport)
}

// === DTOs ===

// ExportOutput wraps the export document with file-download headers.
type ExportOutput struct {
	ContentDisposition string `header:"Content-Disposition"`
	Body               service.ExportDocument
}

// ImportInput wraps an export document being replayed. The body is
// taken raw so malformed documents surface as invalid-import-format
// instead of schema errors.
type ImportInput struct {
	SessionInput
	RawBody []byte
}

// ImportResponse acknowledges an import with its per-category counters.
type ImportResponse struct {
	Success bool                  `json:"success" doc:"Whether the import ran"`
	Results service.ImportResults `json:"results" doc:"Per-category created/error counters"`
}

// ImportOutput wraps the import response for Huma.
type ImportOutput struct {
	Body ImportResponse
}

// === Handlers ===

func (s *Server) handleExport(ctx context.Context, input *SessionInput) (*ExportOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	doc, err := s.services.Transfer.Export(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		ContentDisposition: `attachment; filename=bookmarks-export.json`,
		Body:               *doc,
	}, nil
}

func (s *Server) handleImport(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Session)
	if err != nil {
		return nil, err
	}

	var doc service.ExportDocument
	if err := json.Unmarshal(input.RawBody, &doc); err != nil {
		return nil, domainerrors.InvalidImportFormat("invalid import format: malformed JSON")
	}

	results, err := s.services.Transfer.Import(ctx, userID, &doc)
	if err != nil {
		return nil, err
	}

	return &ImportOutput{Body: ImportResponse{Success: true, Results: *results}}, nil
}
