// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"leading whitespace", "  {\"a\":1}\n", `{"a":1}`},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Here is the ontology: {"a":1} as requested.`, `{"a":1}`},
		{"no json", "no structure here", ""},
		{"unbalanced", `{"a":`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.in)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestQuoteCypher(t *testing.T) {
	assert.Equal(t, `'plain'`, quoteCypher("plain"))
	assert.Equal(t, `'it\'s quoted'`, quoteCypher("it's quoted"))
	assert.Equal(t, `'back\\slash'`, quoteCypher(`back\slash`))
}
