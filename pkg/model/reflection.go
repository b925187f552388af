package model

import (
	"time"

	"github.com/google/uuid"
)

type ReflectionID string

// NewReflectionID generates a new unique ReflectionID
func NewReflectionID() ReflectionID {
	return ReflectionID(uuid.New().String())
}

// Reflection is one immutable journal entry plus its generated reply.
// Owner is a snapshot of the identity taken at creation time, so an entry
// written while a generation was in flight is always filed under the
// identity that submitted it.
type Reflection struct {
	ID         ReflectionID `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	AIResponse string       `json:"aiResponse,omitempty"`
	Owner      Identity     `json:"owner"`
}

// History is the ordered set of reflections for one profile key,
// most-recent-first. The store only ever appends at the front.
type History []*Reflection

// Prepend returns a new History with r at the front.
func (h History) Prepend(r *Reflection) History {
	out := make(History, 0, len(h)+1)
	out = append(out, r)
	return append(out, h...)
}
