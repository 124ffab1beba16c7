package domain

import "time"

type SessionID string
type MessageID string

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type Timestamp = time.Time
