package chatbot

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser   Role = "user"
	RoleBot    Role = "bot"
	RoleNotice Role = "notice"
)

// Turn is one message in a conversation.
type Turn struct {
	ID        uuid.UUID    `json:"id"`
	Role      Role         `json:"role"`
	Text      string       `json:"text"`
	Type      ResponseType `json:"type,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Transcript is an in-memory, non-persisted conversation history.
type Transcript struct {
	mu    sync.Mutex
	turns []Turn
	now   func() time.Time
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// AddUser appends a user turn.
func (t *Transcript) AddUser(text string) Turn {
	return t.add(Turn{Role: RoleUser, Text: text})
}

// AddResponse appends the bot's reply.
func (t *Transcript) AddResponse(resp Response) Turn {
	return t.add(Turn{Role: RoleBot, Text: resp.Content, Type: resp.Type})
}

// AddNotice appends a system notice such as a welcome line.
func (t *Transcript) AddNotice(text string) Turn {
	return t.add(Turn{Role: RoleNotice, Text: text})
}

func (t *Transcript) add(turn Turn) Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	turn.ID = uuid.New()
	turn.CreatedAt = t.now()
	t.turns = append(t.turns, turn)
	return turn
}

// Turns returns a copy of the history.
func (t *Transcript) Turns() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Turn(nil), t.turns...)
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

// Clear drops all turns.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
}
