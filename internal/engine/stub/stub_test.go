// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package stub_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreweave/loreweave/internal/engine"
	"github.com/loreweave/loreweave/internal/engine/stub"
)

func collect(t *testing.T, ch <-chan engine.Fragment) string {
	t.Helper()
	var b strings.Builder
	for frag := range ch {
		require.NoError(t, frag.Err)
		b.WriteString(frag.Text)
	}
	return b.String()
}

func ingest(t *testing.T, e *stub.Engine, docs ...engine.Document) engine.IngestSummary {
	t.Helper()
	summary, err := e.Ingest(context.Background(), docs)
	require.NoError(t, err)
	return summary
}

func TestEngine_EmptyStore(t *testing.T) {
	e := stub.New()

	ch, err := e.StreamChat(context.Background(), "anything at all")
	require.NoError(t, err)

	answer := collect(t, ch)
	assert.Equal(t, "No knowledge available yet. Please ingest documents and try again. ", answer)
}

func TestEngine_NoMatchListsDocuments(t *testing.T) {
	e := stub.New()
	ingest(t, e,
		engine.Document{Name: "alpha.txt", Content: "apples and oranges"},
		engine.Document{Name: "beta.txt", Content: "bread and butter"},
	)

	ch, err := e.StreamChat(context.Background(), "zzz")
	require.NoError(t, err)

	answer := strings.TrimRight(collect(t, ch), " ")
	assert.Equal(t, "No direct match found for 'zzz'. Available documents: alpha.txt, beta.txt.", answer)
}

func TestEngine_RankedAnswer(t *testing.T) {
	e := stub.New()
	ingest(t, e,
		engine.Document{Name: "fruit.txt", Content: "Apples grow on trees.\nOranges are citrus."},
		engine.Document{Name: "bread.txt", Content: "Bread needs flour."},
	)

	ch, err := e.StreamChat(context.Background(), "apples oranges")
	require.NoError(t, err)

	answer := collect(t, ch)
	assert.Contains(t, answer, "Prompt: apples oranges")
	assert.Contains(t, answer, "fruit.txt (score 2): Apples grow on trees. / Oranges are citrus.")
	assert.NotContains(t, answer, "bread.txt")
}

func TestEngine_StreamFragmentsAreWords(t *testing.T) {
	e := stub.New()

	ch, err := e.StreamChat(context.Background(), "hello")
	require.NoError(t, err)

	var frags []string
	for frag := range ch {
		require.NoError(t, frag.Err)
		frags = append(frags, frag.Text)
	}

	require.NotEmpty(t, frags)
	for _, f := range frags {
		assert.True(t, strings.HasSuffix(f, " "), "fragment %q must end with a space", f)
		assert.Equal(t, 1, strings.Count(f, " "), "fragment %q must be one word and one space", f)
	}
	assert.Equal(t, "No", strings.TrimSpace(frags[0]))
}

func TestEngine_StreamDeterministic(t *testing.T) {
	e := stub.New()
	ingest(t, e,
		engine.Document{Name: "a.txt", Content: "cats sleep all day"},
		engine.Document{Name: "b.txt", Content: "dogs chase cats"},
	)

	first, err := e.StreamChat(context.Background(), "cats dogs")
	require.NoError(t, err)
	second, err := e.StreamChat(context.Background(), "cats dogs")
	require.NoError(t, err)

	assert.Equal(t, collect(t, first), collect(t, second))
}

func TestEngine_IngestEmptyBatch(t *testing.T) {
	e := stub.New()

	summary, err := e.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DocumentsIngested)
	assert.Equal(t, 0, summary.TotalDocuments)

	// An empty batch on a populated store leaves it untouched.
	ingest(t, e, engine.Document{Name: "a.txt", Content: "alpha"})
	summary, err = e.Ingest(context.Background(), []engine.Document{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DocumentsIngested)
	assert.Equal(t, 1, summary.TotalDocuments)
}

func TestEngine_IngestOverwriteKeepsPosition(t *testing.T) {
	e := stub.New()
	ingest(t, e,
		engine.Document{Name: "a.txt", Content: "old"},
		engine.Document{Name: "b.txt", Content: "other"},
	)

	summary := ingest(t, e, engine.Document{Name: "a.txt", Content: "new"})
	assert.Equal(t, 1, summary.DocumentsIngested)
	assert.Equal(t, 2, summary.TotalDocuments)

	docs, err := e.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.txt", docs[0].Name)
	assert.Equal(t, "new", docs[0].Content)
	assert.Equal(t, "b.txt", docs[1].Name)
}

func TestEngine_TieBreakFavorsFirstIngested(t *testing.T) {
	e := stub.New()
	ingest(t, e,
		engine.Document{Name: "first.txt", Content: "shared token here"},
		engine.Document{Name: "second.txt", Content: "shared token there"},
	)

	ch, err := e.StreamChat(context.Background(), "shared token")
	require.NoError(t, err)

	answer := collect(t, ch)
	firstIdx := strings.Index(answer, "first.txt")
	secondIdx := strings.Index(answer, "second.txt")
	require.GreaterOrEqual(t, firstIdx, 0)
	require.GreaterOrEqual(t, secondIdx, 0)
	assert.Less(t, firstIdx, secondIdx)
}

func TestEngine_TopThreeSources(t *testing.T) {
	e := stub.New()
	ingest(t, e,
		engine.Document{Name: "d1.txt", Content: "needle"},
		engine.Document{Name: "d2.txt", Content: "needle"},
		engine.Document{Name: "d3.txt", Content: "needle"},
		engine.Document{Name: "d4.txt", Content: "needle"},
	)

	ch, err := e.StreamChat(context.Background(), "needle")
	require.NoError(t, err)

	answer := collect(t, ch)
	assert.Contains(t, answer, "d1.txt")
	assert.Contains(t, answer, "d2.txt")
	assert.Contains(t, answer, "d3.txt")
	assert.NotContains(t, answer, "d4.txt")
}

func TestEngine_ResetClearsEverything(t *testing.T) {
	e := stub.New()
	ingest(t, e, engine.Document{Name: "a.txt", Content: "content"})

	ch, err := e.StreamChat(context.Background(), "content")
	require.NoError(t, err)
	collect(t, ch)
	require.NotEmpty(t, e.History())

	require.NoError(t, e.Reset(context.Background()))

	docs, err := e.Documents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, e.History())

	ch, err = e.StreamChat(context.Background(), "content")
	require.NoError(t, err)
	assert.Contains(t, collect(t, ch), "No knowledge available yet.")
}

func TestEngine_HistoryRecordsTurns(t *testing.T) {
	e := stub.New()

	ch, err := e.StreamChat(context.Background(), "first question")
	require.NoError(t, err)
	answer := strings.TrimRight(collect(t, ch), " ")

	history := e.History()
	require.Len(t, history, 2)
	assert.Equal(t, engine.RoleUser, history[0].Role)
	assert.Equal(t, "first question", history[0].Content)
	assert.Equal(t, engine.RoleAssistant, history[1].Role)
	assert.Equal(t, answer, history[1].Content)
}

func TestEngine_StreamCancellation(t *testing.T) {
	e := stub.New()
	ingest(t, e, engine.Document{Name: "a.txt", Content: "token"})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := e.StreamChat(ctx, "token")
	require.NoError(t, err)

	// Take one fragment, cancel, and drain. The channel must close.
	<-ch
	cancel()
	for range ch {
	}
}

func TestRank_CountsDistinctTokens(t *testing.T) {
	docs := []engine.Document{
		{Name: "a", Content: "the quick brown fox"},
	}

	ranked := stub.Rank("quick quick FOX", docs)
	require.Len(t, ranked, 1)
	assert.Equal(t, 2, ranked[0].Score)
}

func TestRank_SubstringContainment(t *testing.T) {
	docs := []engine.Document{
		{Name: "a", Content: "deterministic"},
	}

	ranked := stub.Rank("minis", docs)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].Score)
}

func TestRank_DropsZeroScores(t *testing.T) {
	docs := []engine.Document{
		{Name: "a", Content: "alpha"},
		{Name: "b", Content: "beta"},
	}

	ranked := stub.Rank("beta", docs)
	require.Len(t, ranked, 1)
	assert.Equal(t, "b", ranked[0].Document.Name)
}

func TestRank_EmptyPrompt(t *testing.T) {
	docs := []engine.Document{{Name: "a", Content: "alpha"}}
	assert.Nil(t, stub.Rank("   ", docs))
	assert.Nil(t, stub.Rank("x", nil))
}

func TestRank_OrderByScoreDescending(t *testing.T) {
	docs := []engine.Document{
		{Name: "low", Content: "alpha"},
		{Name: "high", Content: "alpha beta gamma"},
	}

	ranked := stub.Rank("alpha beta gamma", docs)
	require.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0].Document.Name)
	assert.Equal(t, 3, ranked[0].Score)
	assert.Equal(t, "low", ranked[1].Document.Name)
	assert.Equal(t, 1, ranked[1].Score)
}
