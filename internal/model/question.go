package model

// Question is one quiz question with its option set. Options are
// shuffled once at creation and never reordered afterwards, so every
// observer of a room sees identical ordering. The correct option is
// never serialized to clients.
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"-"`
}

// Public returns the client-facing view of the question.
func (q Question) Public() RoundQuestion {
	return RoundQuestion{Prompt: q.Prompt, Options: q.Options}
}

// RoundQuestion is the wire form of a question, without the answer.
type RoundQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}
