package training

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/issa-compass/backend/internal/assistant"
)

// Turn is one recorded message: direction "in" for the client, "out" for
// the consultant.
type Turn struct {
	Direction string `json:"direction"`
	Text      string `json:"text"`
}

type RecordedConversation struct {
	ContactID    string `json:"contact_id"`
	Scenario     string `json:"scenario"`
	Conversation []Turn `json:"conversation"`
}

// Sequence is one training unit: a client sequence, the consultant reply
// that answered it, and everything that came before as chat history.
type Sequence struct {
	ContactID       string              `json:"contact_id"`
	Scenario        string              `json:"scenario"`
	ClientSequence  []string            `json:"client_sequence"`
	ConsultantReply []string            `json:"consultant_reply"`
	ChatHistory     []assistant.Message `json:"chat_history"`
}

func LoadConversations(path string) ([]RecordedConversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var conversations []RecordedConversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}

	return conversations, nil
}

// ExtractSequences groups consecutive inbound turns into client sequences
// and the immediately following outbound turns into consultant replies.
// Consultant turns with no pending client message go straight into the
// accumulated history.
func ExtractSequences(conversations []RecordedConversation) []Sequence {
	var sequences []Sequence

	for _, convo := range conversations {
		messages := convo.Conversation

		var chatHistory []assistant.Message
		var clientBuffer []string

		for i := 0; i < len(messages); i++ {
			msg := messages[i]

			if msg.Direction == "in" {
				clientBuffer = append(clientBuffer, msg.Text)
				continue
			}

			if len(clientBuffer) == 0 {
				chatHistory = append(chatHistory, assistant.Message{Role: "consultant", Message: msg.Text})
				continue
			}

			consultantReply := []string{msg.Text}
			j := i + 1
			for j < len(messages) && messages[j].Direction == "out" {
				consultantReply = append(consultantReply, messages[j].Text)
				j++
			}

			sequences = append(sequences, Sequence{
				ContactID:       convo.ContactID,
				Scenario:        convo.Scenario,
				ClientSequence:  append([]string(nil), clientBuffer...),
				ConsultantReply: consultantReply,
				ChatHistory:     append([]assistant.Message(nil), chatHistory...),
			})

			for _, clientMsg := range clientBuffer {
				chatHistory = append(chatHistory, assistant.Message{Role: "client", Message: clientMsg})
			}
			for _, consultantMsg := range consultantReply {
				chatHistory = append(chatHistory, assistant.Message{Role: "consultant", Message: consultantMsg})
			}

			clientBuffer = nil
			i = j - 1
		}
	}

	return sequences
}
