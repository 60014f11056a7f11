package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

// MutationMessage wraps one ledger mutation for the queue. MessageID is a
// delivery identifier only; the ledger entry id stays inside the mutation.
type MutationMessage struct {
	MessageID string          `json:"message_id"`
	Mutation  ledger.Mutation `json:"mutation"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMutationMessage wraps a normalized mutation with a fresh delivery id.
func NewMutationMessage(m ledger.Mutation) *MutationMessage {
	return &MutationMessage{
		MessageID: uuid.NewString(),
		Mutation:  m.Normalize(),
		Timestamp: time.Now(),
	}
}

func (m *MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MutationMessageFromJSON(data []byte) (*MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
