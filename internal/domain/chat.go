package domain

// Message is a single entry in a session's timeline (user or assistant).
// Messages are immutable once appended and keep insertion order.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Sender    Sender
	Text      string
	CreatedAt Timestamp
}

// Session is one conversation thread with its own identity and title.
type Session struct {
	ID        SessionID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}
