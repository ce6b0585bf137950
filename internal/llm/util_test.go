package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"isCV\": true}\n```",
			expected: `{"isCV": true}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"isCV\": true}\n```",
			expected: `{"isCV": true}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"isCV\": true}\n```",
			expected: `{"isCV": true}`,
		},
		{
			name:     "plain JSON",
			input:    `{"isCV": true}`,
			expected: `{"isCV": true}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n\n  {\"GPA\": \"0\"}  \n",
			expected: `{"GPA": "0"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "nested objects",
			input:    `{"outer": {"inner": "value"}}`,
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "preamble and trailing prose",
			input:    "Here is the answer:\n{\"isCV\": true, \"GPA\": \"0\"}\nHope this helps {really}.",
			expected: `{"isCV": true, "GPA": "0"}`,
		},
		{
			name:     "braces inside strings",
			input:    `{"GPA": "at least {3.0} out of 4}"}`,
			expected: `{"GPA": "at least {3.0} out of 4}"}`,
		},
		{
			name:     "escaped quotes inside strings",
			input:    `{"GPA": "say \"}\" twice"} tail`,
			expected: `{"GPA": "say \"}\" twice"}`,
		},
		{
			name:     "two objects returns the first",
			input:    `{"a": 1} {"b": 2}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "unbalanced",
			input:    `{"a": {"b": 1}`,
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "no object",
			input:    "not json at all",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}
