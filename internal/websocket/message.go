package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribeJob   MessageType = "SUBSCRIBE_JOB"
	MessageTypeUnsubscribeJob MessageType = "UNSUBSCRIBE_JOB"

	// Server to Client
	MessageTypeSubscribed       MessageType = "SUBSCRIBED"
	MessageTypeOptimizeProgress MessageType = "OPTIMIZE_PROGRESS"
	MessageTypeOptimizeComplete MessageType = "OPTIMIZE_COMPLETE"
	MessageTypeOptimizeError    MessageType = "OPTIMIZE_ERROR"
	MessageTypeError            MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type SubscribeJobPayload struct {
	JobID string `json:"jobId"`
}

// Server to Client payloads

type SubscribedPayload struct {
	JobID string `json:"jobId"`
}

type OptimizeProgressPayload struct {
	JobID   string  `json:"jobId"`
	Status  string  `json:"status"`
	Percent float64 `json:"percent"`
}

type OptimizeCompletePayload struct {
	JobID  string      `json:"jobId"`
	Result interface{} `json:"result"`
}

type OptimizeErrorPayload struct {
	JobID string `json:"jobId"`
	Error string `json:"error"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
