// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package graph

import (
	"context"
	"strings"

	"github.com/loreweave/loreweave/internal/engine"
	"github.com/loreweave/loreweave/internal/knowledge"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

// bridgeStream runs the session's blocking producer on a dedicated
// goroutine and forwards its fragments over a channel in strict FIFO
// order. The channel close is the end-of-stream sentinel; a producer
// failure is recorded and delivered as one final error fragment only
// after every successfully produced fragment, so partial results are
// never discarded. If the consumer abandons the stream, delivery stops
// on ctx but the producer is only guaranteed to stop at its next emit.
func (e *Engine) bridgeStream(ctx context.Context, session knowledge.ChatSession, prompt string) <-chan engine.Fragment {
	out := make(chan engine.Fragment)

	go func() {
		defer close(out)

		var answer strings.Builder
		err := session.SendMessageStream(ctx, prompt, func(fragment string) error {
			select {
			case out <- engine.Fragment{Text: fragment}:
				answer.WriteString(fragment)
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		e.mu.Lock()
		e.history = append(e.history, engine.Turn{Role: engine.RoleAssistant, Content: answer.String()})
		e.mu.Unlock()

		if err != nil && ctx.Err() == nil {
			failure := lwerr.Wrap(err, lwerr.CodeGraphStreamFailure, "graph streaming failed")
			select {
			case out <- engine.Fragment{Err: failure}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
