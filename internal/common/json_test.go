package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Bare Object",
			input: `{"company_name":"Acme"}`,
			want:  `{"company_name":"Acme"}`,
		},
		{
			name:  "Surrounding Prose",
			input: "Here is the profile:\n{\"company_name\":\"Acme\"}\nHope this helps!",
			want:  `{"company_name":"Acme"}`,
		},
		{
			name:  "Code Fence",
			input: "```json\n{\"company_name\":\"Acme\"}\n```",
			want:  `{"company_name":"Acme"}`,
		},
		{
			name:  "Nested Braces",
			input: `{"a":{"b":1},"c":2} trailing`,
			want:  `{"a":{"b":1},"c":2}`,
		},
		{
			name:  "Braces In Strings",
			input: `{"note":"uses { and } inside"}`,
			want:  `{"note":"uses { and } inside"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONObject_Errors(t *testing.T) {
	_, err := ExtractJSONObject("no json here")
	assert.Error(t, err)

	_, err = ExtractJSONObject(`{"unterminated": true`)
	assert.Error(t, err)
}

func TestExtractJSONArray(t *testing.T) {
	got, err := ExtractJSONArray("The use cases:\n```json\n[{\"id\":\"uc-1\"},{\"id\":\"uc-2\"}]\n```")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"uc-1"},{"id":"uc-2"}]`, got)
}
