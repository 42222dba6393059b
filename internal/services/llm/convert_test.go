package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/conspectus/internal/interfaces"
)

func TestConvertMessagesToClaude(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "You are a research analyst."},
		{Role: "user", Content: "Research Acme Corp."},
		{Role: "assistant", Content: "Here is the profile."},
		{Role: "user", Content: "Now the report."},
	}

	claudeMessages, system, err := convertMessagesToClaude(messages)
	require.NoError(t, err)
	assert.Equal(t, "You are a research analyst.", system)
	// System messages are pulled out of the conversation array.
	assert.Len(t, claudeMessages, 3)
}

func TestConvertMessagesToClaude_Errors(t *testing.T) {
	_, _, err := convertMessagesToClaude(nil)
	assert.Error(t, err)

	_, _, err = convertMessagesToClaude([]interfaces.Message{
		{Role: "system", Content: "only system"},
	})
	assert.Error(t, err, "a conversation without a user message is invalid")
}

func TestConvertMessagesToGemini(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "You are a research analyst."},
		{Role: "user", Content: "Research Acme Corp."},
		{Role: "assistant", Content: "Here is the profile."},
	}

	contents, system, err := convertMessagesToGemini(messages)
	require.NoError(t, err)
	assert.Equal(t, "You are a research analyst.", system)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}

func TestConvertMessagesToGemini_UnknownRoleDefaultsToUser(t *testing.T) {
	contents, _, err := convertMessagesToGemini([]interfaces.Message{
		{Role: "user", Content: "hello"},
		{Role: "tool", Content: "result"},
	})
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[1].Role)
}
