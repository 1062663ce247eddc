// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigParseInvalidFormat   Code = "config.parse.invalid_format"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeGraphModelInvalid          Code = "graph.model.config_invalid"
	CodeGraphStoreConnectFailure   Code = "graph.store.connect_failure"
	CodeGraphStoreDeleteFailure    Code = "graph.store.delete_failure"
	CodeGraphOntologyBuildFailure  Code = "graph.ontology.build_failure"
	CodeGraphOntologyLoadCorrupt   Code = "graph.ontology.load_corrupt"
	CodeGraphSourcesProcessFailure Code = "graph.sources.process_failure"
	CodeGraphStreamFailure         Code = "graph.stream.failure"
	CodeGraphBackendUnavailable    Code = "graph.backend.unavailable"

	CodeEngineSessionMissing Code = "engine.session.missing"

	CodeIngestCollectFailure   Code = "ingest.collect.failure"
	CodeIngestUploadFailure    Code = "ingest.upload.failure"
	CodeIngestNoDocumentsFound Code = "ingest.documents.not_found"

	CodeServerRequestInvalid  Code = "server.request.invalid"
	CodeServerInternalFailure Code = "server.internal.failure"
	CodeServerStartFailure    Code = "server.start.failure"

	CodeCLISetupFailure Code = "cli.setup.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldGraph(value string) Attr {
	return Field("graph", value)
}

func FieldDocument(value string) Attr {
	return Field("document", value)
}

func FieldModel(value string) Attr {
	return Field("model", value)
}

func FieldAddr(value string) Attr {
	return Field("addr", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsConfiguration reports whether err is a configuration error in the
// engine contract's sense: the production backend cannot be constructed
// or used correctly. These degrade to the stub engine at construction
// time and propagate to callers afterwards. The transient
// graph.store.delete_failure code is deliberately excluded.
func IsConfiguration(err error) bool {
	switch CodeOf(err) {
	case CodeGraphModelInvalid,
		CodeGraphStoreConnectFailure,
		CodeGraphOntologyBuildFailure,
		CodeGraphSourcesProcessFailure,
		CodeGraphStreamFailure,
		CodeGraphBackendUnavailable,
		CodeEngineSessionMissing:
		return true
	}
	return false
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		// Configuration errors included: the request boundary reports
		// them as a server-side failure, distinct from empty results.
		return http.StatusInternalServerError
	}
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
