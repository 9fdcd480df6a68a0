package events

import (
	"encoding/json"
	"time"

	"endurowallet/internal/core"
)

// RecordCreatedMessage announces one newly stored record. It carries only
// the partition coordinates; consumers fetch the record body from the store.
type RecordCreatedMessage struct {
	UserID    string    `json:"userId"`
	Kind      core.Kind `json:"kind"`
	RecordID  string    `json:"recordId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordCreatedMessage builds a message stamped with the current time.
func NewRecordCreatedMessage(userID string, kind core.Kind, recordID string) *RecordCreatedMessage {
	return &RecordCreatedMessage{
		UserID:    userID,
		Kind:      kind,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordCreatedMessageFromJSON parses a message from JSON bytes.
func RecordCreatedMessageFromJSON(data []byte) (*RecordCreatedMessage, error) {
	var msg RecordCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
