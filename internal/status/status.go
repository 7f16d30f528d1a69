package status

import "sync"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Status is the one-line outcome shown above the chat.
type Status struct {
	Kind    Kind
	Message string
}

// Banner holds the current Status, or none. It is shared by the upload and
// chat controllers and is never persisted.
type Banner struct {
	mu  sync.RWMutex
	cur *Status
}

func (b *Banner) Success(message string) {
	b.set(&Status{Kind: KindSuccess, Message: message})
}

func (b *Banner) Error(message string) {
	b.set(&Status{Kind: KindError, Message: message})
}

func (b *Banner) Clear() {
	b.set(nil)
}

// Current returns a copy of the current status, or nil.
func (b *Banner) Current() *Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.cur == nil {
		return nil
	}
	s := *b.cur
	return &s
}

func (b *Banner) set(s *Status) {
	b.mu.Lock()
	b.cur = s
	b.mu.Unlock()
}
