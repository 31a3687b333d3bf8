package training

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConversations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	data := `[{"contact_id": "c1", "scenario": "visa inquiry", "conversation": [
		{"direction": "in", "text": "hello"},
		{"direction": "out", "text": "hi, how can I help?"}
	]}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	conversations, err := LoadConversations(path)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.Equal(t, "c1", conversations[0].ContactID)
	require.Len(t, conversations[0].Conversation, 2)
}

func TestLoadConversationsMissingFile(t *testing.T) {
	_, err := LoadConversations(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestExtractSequencesGroupsRuns(t *testing.T) {
	conversations := []RecordedConversation{{
		ContactID: "c1",
		Scenario:  "visa inquiry",
		Conversation: []Turn{
			{Direction: "in", Text: "hi"},
			{Direction: "in", Text: "I need a visa"},
			{Direction: "out", Text: "sure"},
			{Direction: "out", Text: "which country?"},
			{Direction: "in", Text: "thailand"},
			{Direction: "out", Text: "here are the requirements"},
		},
	}}

	sequences := ExtractSequences(conversations)
	require.Len(t, sequences, 2)

	first := sequences[0]
	require.Equal(t, []string{"hi", "I need a visa"}, first.ClientSequence)
	require.Equal(t, []string{"sure", "which country?"}, first.ConsultantReply)
	require.Empty(t, first.ChatHistory)

	second := sequences[1]
	require.Equal(t, []string{"thailand"}, second.ClientSequence)
	require.Equal(t, []string{"here are the requirements"}, second.ConsultantReply)

	// History for the second sequence covers the entire first exchange,
	// each turn exactly once.
	require.Len(t, second.ChatHistory, 4)
	require.Equal(t, "client", second.ChatHistory[0].Role)
	require.Equal(t, "hi", second.ChatHistory[0].Message)
	require.Equal(t, "consultant", second.ChatHistory[3].Role)
	require.Equal(t, "which country?", second.ChatHistory[3].Message)
}

func TestExtractSequencesLeadingConsultantTurns(t *testing.T) {
	conversations := []RecordedConversation{{
		ContactID: "c2",
		Conversation: []Turn{
			{Direction: "out", Text: "welcome to Issa Compass"},
			{Direction: "in", Text: "thanks"},
			{Direction: "out", Text: "how can I help?"},
		},
	}}

	sequences := ExtractSequences(conversations)
	require.Len(t, sequences, 1)

	seq := sequences[0]
	require.Equal(t, []string{"thanks"}, seq.ClientSequence)
	require.Equal(t, []string{"how can I help?"}, seq.ConsultantReply)
	require.Len(t, seq.ChatHistory, 1)
	require.Equal(t, "consultant", seq.ChatHistory[0].Role)
	require.Equal(t, "welcome to Issa Compass", seq.ChatHistory[0].Message)
}

func TestExtractSequencesTrailingClientTurnsDropped(t *testing.T) {
	conversations := []RecordedConversation{{
		ContactID: "c3",
		Conversation: []Turn{
			{Direction: "in", Text: "hello"},
			{Direction: "out", Text: "hi"},
			{Direction: "in", Text: "one more thing"},
		},
	}}

	sequences := ExtractSequences(conversations)
	require.Len(t, sequences, 1)
	require.Equal(t, []string{"hello"}, sequences[0].ClientSequence)
}
