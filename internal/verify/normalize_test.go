package verify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RoundTrip(t *testing.T) {
	payloads := []map[string]any{
		{"wasteTypeMatch": true, "quantityMatch": false, "confidence": 0.85},
		{"wasteType": "plastic", "quantity": "2 kg", "confidence": 1.0},
		{"nested": map[string]any{"a": []any{1.0, "two", nil}}, "empty": ""},
		{},
	}

	for _, payload := range payloads {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)

		got, err := Normalize(string(encoded))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func TestNormalize_FencedMatchesUnfenced(t *testing.T) {
	plain := `{"wasteTypeMatch":true,"quantityMatch":true,"confidence":0.85}`
	want, err := Normalize(plain)
	require.NoError(t, err)

	inputs := []string{
		"Here you go:\n```json\n" + plain + "\n```",
		"```JSON\n" + plain + "\n```\nLet me know if you need more.",
		"```\n" + plain + "\n```",
		"```" + plain + "```",
		"Sure!\n```text\nnot json\n```\nand\n```json\n" + plain + "\n```",
	}

	for _, input := range inputs {
		got, err := Normalize(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestNormalize_Strategies(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         map[string]any
		wantStrategy string
	}{
		{
			name:         "surrounding whitespace",
			input:        "  \n{\"confidence\":0.5}\n ",
			want:         map[string]any{"confidence": 0.5},
			wantStrategy: "direct",
		},
		{
			name:         "object embedded in prose",
			input:        `The result is {"wasteTypeMatch": true, "confidence": 0.9} hope this helps`,
			want:         map[string]any{"wasteTypeMatch": true, "confidence": 0.9},
			wantStrategy: "braces",
		},
		{
			name:         "skips brace fragment that is not json",
			input:        `Options {a, b} then {"confidence": 0.4}`,
			want:         map[string]any{"confidence": 0.4},
			wantStrategy: "braces",
		},
		{
			name:         "nested object kept whole",
			input:        `Answer: {"wasteType": {"plastic": true, "glass": false}, "confidence": 0.7}.`,
			want:         map[string]any{"wasteType": map[string]any{"plastic": true, "glass": false}, "confidence": 0.7},
			wantStrategy: "braces",
		},
		{
			name:         "braces inside strings do not unbalance",
			input:        `note {"msg": "use } carefully \" {", "confidence": 0.5} end`,
			want:         map[string]any{"msg": "use } carefully \" {", "confidence": 0.5},
			wantStrategy: "braces",
		},
		{
			name:         "fenced block with bad json falls through to braces",
			input:        "```json\n{broken\n```\nActually: {\"confidence\": 0.3}",
			want:         map[string]any{"confidence": 0.3},
			wantStrategy: "braces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy, err := normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStrategy, strategy)
		})
	}
}

func TestNormalize_NoStructuredData(t *testing.T) {
	inputs := []string{
		"I cannot determine this.",
		"",
		"```json\n[1, 2, 3]\n```",
		`["not", "an", "object"]`,
		"null",
		"{ unterminated",
		"closing only }",
		`"just a string"`,
	}

	for _, input := range inputs {
		got, err := Normalize(input)
		require.Error(t, err, input)
		assert.Nil(t, got, input)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "no valid structured data found", parseErr.Reason)
	}
}

func TestMatchingBrace(t *testing.T) {
	assert.Equal(t, 7, matchingBrace(`{"a":{}}`, 0))
	assert.Equal(t, -1, matchingBrace(`{"a":{}`, 0))
	assert.Equal(t, 10, matchingBrace(`{"a":"}\""}`, 0))
}
