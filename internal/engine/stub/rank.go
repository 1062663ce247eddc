// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package stub

import (
	"sort"
	"strings"

	"github.com/loreweave/loreweave/internal/engine"
)

// topK bounds how many ranked documents feed an answer.
const topK = 3

// Ranked pairs a document with its relevance score for a prompt.
type Ranked struct {
	Document engine.Document
	Score    int
}

// Rank scores each document by the number of distinct lower-cased
// prompt tokens contained in its lower-cased content (substring
// containment, not word boundaries), drops zero scores, and returns at
// most topK results ordered by score descending. The sort is stable,
// so ties keep encounter order: first ingested wins.
//
// Deterministic by contract: the same prompt and document sequence
// always produce the same ranked list.
func Rank(prompt string, docs []engine.Document) []Ranked {
	tokens := tokenize(prompt)
	if len(tokens) == 0 || len(docs) == 0 {
		return nil
	}

	var ranked []Ranked
	for _, doc := range docs {
		content := strings.ToLower(doc.Content)
		score := 0
		for token := range tokens {
			if strings.Contains(content, token) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, Ranked{Document: doc, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// tokenize lower-cases the whitespace-separated prompt tokens,
// discarding empties. A set: duplicate tokens count once.
func tokenize(prompt string) map[string]struct{} {
	fields := strings.Fields(prompt)
	if len(fields) == 0 {
		return nil
	}
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[strings.ToLower(f)] = struct{}{}
	}
	return tokens
}
