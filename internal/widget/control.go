// Package widget holds the value-bearing input controls used by the
// listing form: each one exposes the same Control contract so a form can
// bind to it without knowing the concrete widget.
package widget

import (
	"sync"
	"time"

	"immo-client/internal/model"
)

// Control is the value accessor shared by every widget. SetValue writes
// from the form side and does not fire OnChange; user edits do.
type Control[T any] interface {
	Value() T
	SetValue(T)
	OnChange(func(T))
	OnBlur(func())
	Blur()
	SetDisabled(bool)
	Disabled() bool
}

// Option is one choice of a select widget.
type Option struct {
	Value    string
	Label    string
	Disabled bool
}

type base[T any] struct {
	mu       sync.Mutex
	value    T
	disabled bool
	changeFn []func(T)
	blurFn   []func()
}

func (b *base[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

func (b *base[T]) OnChange(fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changeFn = append(b.changeFn, fn)
}

func (b *base[T]) OnBlur(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blurFn = append(b.blurFn, fn)
}

func (b *base[T]) SetDisabled(disabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disabled = disabled
}

func (b *base[T]) Disabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}

// Callers release mu before notifying so listeners may read the widget.
func (b *base[T]) listenersLocked() ([]func(T), []func()) {
	return append([]func(T){}, b.changeFn...), append([]func(){}, b.blurFn...)
}

func notifyChange[T any](fns []func(T), value T) {
	for _, fn := range fns {
		fn(value)
	}
}

func notifyBlur(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

var (
	_ Control[int64]             = (*CurrencyInput)(nil)
	_ Control[string]            = (*SearchSelect)(nil)
	_ Control[[]string]          = (*MultiSelect)(nil)
	_ Control[[]model.MediaFile] = (*FileUpload)(nil)
	_ Control[time.Time]         = (*DatePicker)(nil)
)
