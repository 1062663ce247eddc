// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/loreweave/loreweave/internal/engine"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

// ChatStreamRequest is the request body for the streaming endpoint.
type ChatStreamRequest struct {
	Prompt string `json:"prompt" minLength:"1" doc:"User prompt"`
}

type fragmentPayload struct {
	Text string `json:"text"`
}

type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) registerStreamRoute() {
	s.router.Post("/api/v1/chat/stream", s.handleChatStream)

	// Register the operation in the OpenAPI spec manually. The streaming
	// handler needs raw http.ResponseWriter access, so it cannot use Huma's
	// standard handler signature. The chi route above does the actual
	// request handling, this entry exists for documentation.
	minPromptLen := 1
	s.api.OpenAPI().AddOperation(&huma.Operation{
		OperationID: "chat-stream",
		Method:      http.MethodPost,
		Path:        "/api/v1/chat/stream",
		Summary:     "Stream an answer to a prompt",
		Description: "Send a prompt and receive the answer incrementally. Set Accept: text/event-stream for SSE, otherwise receives a JSON object with the collected fragments.",
		Tags:        []string{"chat"},
		RequestBody: &huma.RequestBody{
			Required: true,
			Content: map[string]*huma.MediaType{
				"application/json": {
					Schema: &huma.Schema{
						Type:     "object",
						Required: []string{"prompt"},
						Properties: map[string]*huma.Schema{
							"prompt": {
								Type:        "string",
								MinLength:   &minPromptLen,
								Description: "User prompt",
							},
						},
					},
				},
			},
		},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Streaming response (SSE or JSON depending on Accept header)",
				Content: map[string]*huma.MediaType{
					"text/event-stream": {
						Schema: &huma.Schema{
							Type:        "string",
							Description: "Server-sent event stream of fragment events",
						},
					},
					"application/json": {
						Schema: &huma.Schema{
							Type: "object",
							Properties: map[string]*huma.Schema{
								"fragments": {
									Type:        "array",
									Description: "Answer fragments in arrival order",
									Items:       &huma.Schema{Type: "string"},
								},
								"answer": {
									Type:        "string",
									Description: "Concatenated answer text",
								},
							},
						},
					},
				},
			},
			"422": {Description: "Validation error (missing prompt)"},
			"500": {Description: "No active chat session or backend failure"},
		},
	})
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req ChatStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, `{"error":"prompt is required"}`, http.StatusUnprocessableEntity)
		return
	}

	reqID := uuid.NewString()
	log := s.log.With("request_id", reqID)
	log.Info("chat stream started", "prompt_len", len(req.Prompt), "using_stub", s.chat.UsingStub())

	fragments, err := s.chat.StreamChat(r.Context(), req.Prompt)
	if err != nil {
		log.Error("chat stream rejected", "error", err)
		writeJSONError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		s.writeSSE(w, log, fragments)
		return
	}
	s.writeFragmentsJSON(w, log, fragments)
}

func (s *Server) writeSSE(w http.ResponseWriter, log sseLogger, fragments <-chan engine.Fragment) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		// httptest.ResponseRecorder doesn't implement Flusher,
		// but we still write the events for testability.
		flusher = nil
	}

	count := 0
	for frag := range fragments {
		if frag.Err != nil {
			log.Error("chat stream failed mid-answer", "error", frag.Err)
			writeSSEEvent(w, flusher, "error", errorPayload{
				Error: frag.Err.Error(),
				Code:  string(lwerr.CodeOf(frag.Err)),
			})
			return
		}
		writeSSEEvent(w, flusher, "fragment", fragmentPayload{Text: frag.Text})
		count++
	}

	writeSSEEvent(w, flusher, "done", struct{}{})
	log.Info("chat stream complete", "fragments", count)
}

func (s *Server) writeFragmentsJSON(w http.ResponseWriter, log sseLogger, fragments <-chan engine.Fragment) {
	var texts []string
	var answer strings.Builder
	for frag := range fragments {
		if frag.Err != nil {
			log.Error("chat stream failed mid-answer", "error", frag.Err)
			writeJSONError(w, frag.Err)
			return
		}
		texts = append(texts, frag.Text)
		answer.WriteString(frag.Text)
	}

	w.Header().Set("Content-Type", "application/json")
	resp := struct {
		Fragments []string `json:"fragments"`
		Answer    string   `json:"answer"`
	}{Fragments: texts, Answer: answer.String()}
	if resp.Fragments == nil {
		resp.Fragments = []string{}
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encoding response"}`, http.StatusInternalServerError)
	}
	log.Info("chat stream complete", "fragments", len(texts))
}

type sseLogger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return
	}
	if flusher != nil {
		flusher.Flush()
	}
}
