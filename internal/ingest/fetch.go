// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/loreweave/loreweave/internal/engine"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

// fetchRemoteDocuments resolves every URL manifest under data/url.
// Each manifest line (or JSON array entry) becomes at most one
// document; fetch failures are recorded in metadata and the entry is
// skipped, never failing the whole collection.
func (c *Collector) fetchRemoteDocuments(ctx context.Context) ([]engine.Document, error) {
	manifests, err := sortedGlob(c.urlDir, "*.txt")
	if err != nil {
		return nil, err
	}

	var docs []engine.Document
	for _, manifest := range manifests {
		urls, err := readManifest(manifest)
		if err != nil {
			return nil, err
		}

		stem := strings.TrimSuffix(filepath.Base(manifest), filepath.Ext(manifest))
		for i, url := range urls {
			name := fmt.Sprintf("%s_%d_%s.url", stem, i+1, sha1Hex(url)[:8])
			metadata := map[string]string{
				"source":   "url",
				"url":      url,
				"manifest": filepath.Base(manifest),
			}

			content, status, err := c.fetch(ctx, url)
			if err != nil {
				c.log.Warn("failed to fetch url", "url", url, "error", err)
				metadata["status"] = "error"
				metadata["error"] = err.Error()
				continue
			}
			metadata["status"] = strconv.Itoa(status)

			if strings.TrimSpace(content) == "" {
				continue
			}
			metadata["sha1"] = sha1Hex(content)
			docs = append(docs, engine.Document{Name: name, Content: content, Metadata: metadata})
		}
	}
	return docs, nil
}

// readManifest accepts either a JSON array of URLs or one URL per line.
func readManifest(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, lwerr.Wrap(err, lwerr.CodeIngestCollectFailure, "reading url manifest",
			lwerr.Field("path", path))
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, nil
	}

	var urls []string
	if err := json.Unmarshal([]byte(trimmed), &urls); err == nil {
		return urls, nil
	}

	for _, line := range strings.Split(trimmed, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls, nil
}

// fetch retrieves one URL, paced by the collector's rate limiter, and
// reduces HTML responses to their visible text.
func (c *Collector) fetch(ctx context.Context, url string) (string, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return htmlToText(body), resp.StatusCode, nil
	}
	return string(body), resp.StatusCode, nil
}

// htmlToText strips markup, scripts, and styles, falling back to the
// raw body when parsing fails.
func htmlToText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return string(body)
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text())
}
