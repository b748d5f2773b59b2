package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeGenerate = "generate"
	TypeCancel   = "cancel"
	TypePing     = "ping"

	// Server -> Client
	TypeGenerationState  = "generation_state"
	TypeGenerationResult = "generation_result"
	TypeError            = "error"
	TypePong             = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage encodes payload into a Message of the given type.
func NewMessage(msgType, requestID string, payload any) (Message, error) {
	msg := Message{Type: msgType, RequestID: requestID}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = raw
	return msg, nil
}

// Server Messages (outgoing)

type GenerationStatePayload struct {
	State   string `json:"state"`
	From    string `json:"from"`
	Attempt int    `json:"attempt"`
	WaitMs  int64  `json:"wait_ms,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ErrorPayload struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	Field         string `json:"field,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
