package model

// ChatTurn is one message in a session's conversation history.
type ChatTurn struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// ChatAnswer is the orchestrated response to a chat message.
type ChatAnswer struct {
	Answer  string        `json:"answer"`
	Sources []ChunkSource `json:"sources,omitempty"`
	Booking *Booking      `json:"booking,omitempty"`
}
