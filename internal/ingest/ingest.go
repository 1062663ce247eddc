// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

// Package ingest collects documents from the data directory tree:
// data/pdf for PDFs, data/txt for plain text, data/url for URL
// manifests resolved over HTTP. The engine core only consumes the
// resulting documents; everything here is provenance-tagged I/O.
package ingest

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/time/rate"

	"github.com/loreweave/loreweave/internal/engine"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

const fetchTimeout = 10 * time.Second

// Collector scans the data directories under a base path.
type Collector struct {
	pdfDir  string
	txtDir  string
	urlDir  string
	httpc   *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// New creates a Collector rooted at dataDir, creating the pdf, txt,
// and url subdirectories if needed.
func New(dataDir string, log *slog.Logger) (*Collector, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Collector{
		pdfDir:  filepath.Join(dataDir, "pdf"),
		txtDir:  filepath.Join(dataDir, "txt"),
		urlDir:  filepath.Join(dataDir, "url"),
		httpc:   &http.Client{Timeout: fetchTimeout},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		log:     log.With("component", "ingest"),
	}

	for _, dir := range []string{c.pdfDir, c.txtDir, c.urlDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, lwerr.Wrap(err, lwerr.CodeIngestCollectFailure, "creating data directory",
				lwerr.Field("dir", dir))
		}
	}
	return c, nil
}

// PersistUpload stores an uploaded file, routing .pdf into the pdf
// directory and everything else into the txt directory. It returns the
// stored path.
func (c *Collector) PersistUpload(filename string, data []byte) (string, error) {
	name := filepath.Base(filename)
	dir := c.txtDir
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		dir = c.pdfDir
	}

	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", lwerr.Wrap(err, lwerr.CodeIngestUploadFailure, "storing upload",
			lwerr.FieldDocument(name))
	}
	c.log.Info("stored upload", "path", target)
	return target, nil
}

// CollectDocuments walks all three data directories in sorted order
// and returns every document with non-empty content. The result is
// deterministic for a fixed directory state.
func (c *Collector) CollectDocuments(ctx context.Context) ([]engine.Document, error) {
	var docs []engine.Document

	pdfs, err := sortedGlob(c.pdfDir, "*.pdf")
	if err != nil {
		return nil, err
	}
	for _, path := range pdfs {
		content, err := readPDF(path)
		if err != nil {
			c.log.Warn("skipping unreadable pdf", "path", path, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		docs = append(docs, engine.Document{
			Name:    filepath.Base(path),
			Content: content,
			Metadata: map[string]string{
				"source": "pdf",
				"sha1":   sha1Hex(content),
				"path":   path,
			},
		})
	}

	txts, err := sortedGlob(c.txtDir, "*.txt")
	if err != nil {
		return nil, err
	}
	for _, path := range txts {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, lwerr.Wrap(err, lwerr.CodeIngestCollectFailure, "reading text file",
				lwerr.Field("path", path))
		}
		content := string(raw)
		if strings.TrimSpace(content) == "" {
			continue
		}
		docs = append(docs, engine.Document{
			Name:    filepath.Base(path),
			Content: content,
			Metadata: map[string]string{
				"source": "txt",
				"sha1":   sha1Hex(content),
				"path":   path,
			},
		})
	}

	remote, err := c.fetchRemoteDocuments(ctx)
	if err != nil {
		return nil, err
	}
	docs = append(docs, remote...)

	return docs, nil
}

func sortedGlob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, lwerr.Wrap(err, lwerr.CodeIngestCollectFailure, "scanning data directory",
			lwerr.Field("dir", dir))
	}
	sort.Strings(matches)
	return matches, nil
}

// readPDF extracts the plain text of every page.
func readPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
