// Package notify holds transient user notifications and confirmation
// prompts.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a toast stays when the caller gives none.
const DefaultDuration = 3 * time.Second

type Toast struct {
	ID        string
	Message   string
	Kind      Kind
	Duration  time.Duration
	CreatedAt time.Time
}

// Toasts is an ordered queue of toasts; each one removes itself once its
// duration elapses.
type Toasts struct {
	mu     sync.Mutex
	items  []Toast
	timers map[string]*time.Timer
}

func NewToasts() *Toasts {
	return &Toasts{timers: map[string]*time.Timer{}}
}

// Show queues a toast and returns its ID. A zero duration keeps it until
// Remove is called.
func (t *Toasts) Show(message string, kind Kind, duration time.Duration) string {
	if kind == "" {
		kind = KindInfo
	}

	toast := Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Duration:  duration,
		CreatedAt: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = append(t.items, toast)
	if duration > 0 {
		t.timers[toast.ID] = time.AfterFunc(duration, func() { t.Remove(toast.ID) })
	}

	return toast.ID
}

func (t *Toasts) Success(message string) string {
	return t.Show(message, KindSuccess, DefaultDuration)
}

func (t *Toasts) Error(message string) string {
	return t.Show(message, KindError, DefaultDuration)
}

func (t *Toasts) Warning(message string) string {
	return t.Show(message, KindWarning, DefaultDuration)
}

func (t *Toasts) Info(message string) string {
	return t.Show(message, KindInfo, DefaultDuration)
}

func (t *Toasts) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}

	for i, toast := range t.items {
		if toast.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// List returns the visible toasts, oldest first.
func (t *Toasts) List() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Toast, len(t.items))
	copy(out, t.items)
	return out
}

// Clear drops every toast and stops pending removals.
func (t *Toasts) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.items = nil
}
