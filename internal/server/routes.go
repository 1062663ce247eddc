// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"

	"github.com/loreweave/loreweave/internal/engine"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

const maxUploadBytes = 32 << 20

// IngestResponseBody reports the outcome of an ingest run.
type IngestResponseBody struct {
	Summary engine.IngestSummary `json:"summary"`
}

// IngestResponse wraps the ingest response.
type IngestResponse struct {
	Body IngestResponseBody
}

// DocumentInfo describes one ingested document without its content.
type DocumentInfo struct {
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DocumentsResponseBody lists the currently ingested documents.
type DocumentsResponseBody struct {
	Documents []DocumentInfo `json:"documents"`
	UsingStub bool           `json:"using_stub"`
}

// DocumentsResponse wraps the document listing response.
type DocumentsResponse struct {
	Body DocumentsResponseBody
}

// ResetResponseBody confirms an engine reset.
type ResetResponseBody struct {
	Status    string `json:"status"`
	UsingStub bool   `json:"using_stub"`
}

// ResetResponse wraps the reset response.
type ResetResponse struct {
	Body ResetResponseBody
}

// UploadResponseBody reports where an uploaded file was stored.
type UploadResponseBody struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

func (s *Server) registerChatRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "chat-ingest",
		Method:      http.MethodPost,
		Path:        "/api/v1/chat/ingest",
		Summary:     "Collect and ingest documents from the data directories",
		Tags:        []string{"chat"},
	}, s.handleIngest)

	huma.Register(s.api, huma.Operation{
		OperationID: "chat-documents",
		Method:      http.MethodGet,
		Path:        "/api/v1/chat/documents",
		Summary:     "List ingested documents",
		Tags:        []string{"chat"},
	}, s.handleDocuments)

	huma.Register(s.api, huma.Operation{
		OperationID: "chat-reset",
		Method:      http.MethodPost,
		Path:        "/api/v1/chat/reset",
		Summary:     "Clear all ingested knowledge and conversation history",
		Tags:        []string{"chat"},
	}, s.handleReset)

	// Multipart upload stays on the raw router, huma's body model does
	// not fit streaming form parsing here.
	s.router.Post("/api/v1/chat/upload", s.handleUpload)
}

func (s *Server) handleIngest(ctx context.Context, _ *struct{}) (*IngestResponse, error) {
	docs, err := s.ingestor.CollectDocuments(ctx)
	if err != nil {
		s.log.Error("document collection failed", "error", err)
		return nil, humaError(err)
	}
	if len(docs) == 0 {
		return nil, humaError(lwerr.New(lwerr.CodeIngestNoDocumentsFound,
			"no documents found in the data directories"))
	}

	if err := s.chat.Reset(ctx); err != nil {
		s.log.Error("reset before ingest failed", "error", err)
		return nil, humaError(err)
	}

	summary, err := s.chat.Ingest(ctx, docs)
	if err != nil {
		s.log.Error("ingest failed", "error", err)
		return nil, humaError(err)
	}

	s.log.Info("ingest complete",
		"documents", summary.DocumentsIngested,
		"total", summary.TotalDocuments,
		"using_stub", summary.UsingStub)

	return &IngestResponse{Body: IngestResponseBody{Summary: summary}}, nil
}

func (s *Server) handleDocuments(ctx context.Context, _ *struct{}) (*DocumentsResponse, error) {
	docs, err := s.chat.Documents(ctx)
	if err != nil {
		return nil, humaError(err)
	}

	infos := make([]DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, DocumentInfo{Name: doc.Name, Metadata: doc.Metadata})
	}

	return &DocumentsResponse{Body: DocumentsResponseBody{
		Documents: infos,
		UsingStub: s.chat.UsingStub(),
	}}, nil
}

func (s *Server) handleReset(ctx context.Context, _ *struct{}) (*ResetResponse, error) {
	if err := s.chat.Reset(ctx); err != nil {
		s.log.Error("reset failed", "error", err)
		return nil, humaError(err)
	}

	return &ResetResponse{Body: ResetResponseBody{
		Status:    "reset",
		UsingStub: s.chat.UsingStub(),
	}}, nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, lwerr.Wrap(err, lwerr.CodeServerRequestInvalid,
			"parsing multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, lwerr.Wrap(err, lwerr.CodeServerRequestInvalid,
			"reading form file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSONError(w, lwerr.Wrap(err, lwerr.CodeIngestUploadFailure,
			"reading upload body"))
		return
	}

	name := filepath.Base(header.Filename)
	path, err := s.ingestor.PersistUpload(name, data)
	if err != nil {
		s.log.Error("upload persist failed", "file", name, "error", err)
		writeJSONError(w, err)
		return
	}

	s.log.Info("upload stored", "file", name, "path", path)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(UploadResponseBody{Filename: name, Path: path})
}

// humaError converts a domain error into a huma status error so the
// response status follows the error code taxonomy.
func humaError(err error) error {
	return huma.NewError(lwerr.HTTPStatus(err), err.Error())
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSONError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(lwerr.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error(), Code: string(lwerr.CodeOf(err))})
}
