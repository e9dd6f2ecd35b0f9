package widget

import (
	"fmt"
	"slices"
	"strings"
)

func filterOptions(options []Option, term string) []Option {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]Option(nil), options...)
	}

	out := make([]Option, 0, len(options))
	for _, option := range options {
		if strings.Contains(strings.ToLower(option.Label), term) {
			out = append(out, option)
		}
	}
	return out
}

func findOption(options []Option, value string) (Option, bool) {
	for _, option := range options {
		if option.Value == value {
			return option, true
		}
	}
	return Option{}, false
}

// SearchSelect picks one option out of a list filtered by label.
type SearchSelect struct {
	base[string]
	options []Option
	open    bool
	term    string
}

func NewSearchSelect(options []Option) *SearchSelect {
	return &SearchSelect{options: append([]Option(nil), options...)}
}

// SetOptions swaps the option list, e.g. when the district catalog follows
// a new city. The current value is kept.
func (s *SearchSelect) SetOptions(options []Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = append([]Option(nil), options...)
}

func (s *SearchSelect) SetValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
}

func (s *SearchSelect) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.disabled {
		s.open = true
	}
}

// Close drops the search term and counts as a blur.
func (s *SearchSelect) Close() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.open = false
	s.term = ""
	_, blurFn := s.listenersLocked()
	s.mu.Unlock()

	notifyBlur(blurFn)
}

func (s *SearchSelect) Toggle() {
	if s.IsOpen() {
		s.Close()
		return
	}
	s.Open()
}

func (s *SearchSelect) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *SearchSelect) Search(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term = term
}

func (s *SearchSelect) Filtered() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterOptions(s.options, s.term)
}

// Select picks value and closes the list. It reports false for an unknown
// or disabled option.
func (s *SearchSelect) Select(value string) bool {
	s.mu.Lock()
	option, ok := findOption(s.options, value)
	if s.disabled || !ok || option.Disabled {
		s.mu.Unlock()
		return false
	}
	s.value = option.Value
	changeFn, _ := s.listenersLocked()
	s.mu.Unlock()

	notifyChange(changeFn, option.Value)
	s.Close()
	return true
}

func (s *SearchSelect) SelectedLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.value == "" {
		return ""
	}
	option, _ := findOption(s.options, s.value)
	return option.Label
}

func (s *SearchSelect) Blur() {
	s.mu.Lock()
	s.open = false
	s.term = ""
	_, blurFn := s.listenersLocked()
	s.mu.Unlock()

	notifyBlur(blurFn)
}

// MultiSelect collects several options as tags. A zero MaxSelection means
// no limit.
type MultiSelect struct {
	base[[]string]
	MaxSelection int
	options      []Option
	term         string
}

func NewMultiSelect(options []Option, maxSelection int) *MultiSelect {
	return &MultiSelect{options: append([]Option(nil), options...), MaxSelection: maxSelection}
}

func (m *MultiSelect) Value() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.value...)
}

func (m *MultiSelect) SetValue(values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = append([]string{}, values...)
}

func (m *MultiSelect) Search(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.term = term
}

func (m *MultiSelect) Select(value string) bool {
	m.mu.Lock()
	option, ok := findOption(m.options, value)
	if m.disabled || !ok || option.Disabled || m.maxReachedLocked() || slices.Contains(m.value, value) {
		m.mu.Unlock()
		return false
	}
	m.value = append(m.value, value)
	m.term = ""
	return m.commitLocked()
}

func (m *MultiSelect) Remove(value string) bool {
	m.mu.Lock()
	idx := slices.Index(m.value, value)
	if m.disabled || idx < 0 {
		m.mu.Unlock()
		return false
	}
	m.value = slices.Delete(m.value, idx, idx+1)
	return m.commitLocked()
}

// RemoveLast drops the newest tag when the search box is empty.
func (m *MultiSelect) RemoveLast() bool {
	m.mu.Lock()
	if m.disabled || m.term != "" || len(m.value) == 0 {
		m.mu.Unlock()
		return false
	}
	m.value = m.value[:len(m.value)-1]
	return m.commitLocked()
}

func (m *MultiSelect) Clear() {
	m.mu.Lock()
	if m.disabled {
		m.mu.Unlock()
		return
	}
	m.value = []string{}
	m.commitLocked()
}

func (m *MultiSelect) commitLocked() bool {
	value := append([]string{}, m.value...)
	changeFn, _ := m.listenersLocked()
	m.mu.Unlock()

	notifyChange(changeFn, value)
	return true
}

// Available lists the options matching the search that are not selected.
func (m *MultiSelect) Available() []Option {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := filterOptions(m.options, m.term)
	return slices.DeleteFunc(out, func(option Option) bool {
		return slices.Contains(m.value, option.Value)
	})
}

// Selected returns the selected options in catalog order.
func (m *MultiSelect) Selected() []Option {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Option, 0, len(m.value))
	for _, option := range m.options {
		if slices.Contains(m.value, option.Value) {
			out = append(out, option)
		}
	}
	return out
}

func (m *MultiSelect) MaxReached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxReachedLocked()
}

func (m *MultiSelect) maxReachedLocked() bool {
	return m.MaxSelection > 0 && len(m.value) >= m.MaxSelection
}

func (m *MultiSelect) CountText() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MaxSelection == 0 {
		return fmt.Sprintf("%d selected", len(m.value))
	}
	return fmt.Sprintf("%d/%d selected", len(m.value), m.MaxSelection)
}

func (m *MultiSelect) Blur() {
	m.mu.Lock()
	m.term = ""
	_, blurFn := m.listenersLocked()
	m.mu.Unlock()

	notifyBlur(blurFn)
}
