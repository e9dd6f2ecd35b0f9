package widget

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and display format of DatePicker.
const DateLayout = "2006-01-02"

// DatePicker holds a calendar day. The zero time means no date.
type DatePicker struct {
	base[time.Time]
	min time.Time
	max time.Time
	err string
}

// NewDatePicker bounds the accepted days; a zero bound is open.
func NewDatePicker(earliest time.Time, latest time.Time) *DatePicker {
	return &DatePicker{min: truncateDay(earliest), max: truncateDay(latest)}
}

func (d *DatePicker) SetValue(value time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = truncateDay(value)
	d.err = ""
}

// Input parses raw as DateLayout. An empty string clears the date.
func (d *DatePicker) Input(raw string) error {
	d.mu.Lock()
	if d.disabled {
		d.mu.Unlock()
		return nil
	}

	raw = strings.TrimSpace(raw)
	var value time.Time
	if raw != "" {
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			d.err = fmt.Sprintf("Expected a date like %s", DateLayout)
			d.mu.Unlock()
			return fmt.Errorf("parse date %q: %w", raw, err)
		}
		value = parsed
	}

	if err := d.checkBoundsLocked(value); err != nil {
		d.err = err.Error()
		d.mu.Unlock()
		return err
	}

	d.value = value
	d.err = ""
	changeFn, _ := d.listenersLocked()
	d.mu.Unlock()

	notifyChange(changeFn, value)
	return nil
}

func (d *DatePicker) checkBoundsLocked(value time.Time) error {
	if value.IsZero() {
		return nil
	}
	if !d.min.IsZero() && value.Before(d.min) {
		return fmt.Errorf("date must be on or after %s", d.min.Format(DateLayout))
	}
	if !d.max.IsZero() && value.After(d.max) {
		return fmt.Errorf("date must be on or before %s", d.max.Format(DateLayout))
	}
	return nil
}

// Text renders the value, or "" when unset.
func (d *DatePicker) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.value.IsZero() {
		return ""
	}
	return d.value.Format(DateLayout)
}

func (d *DatePicker) Error() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *DatePicker) Blur() {
	d.mu.Lock()
	_, blurFn := d.listenersLocked()
	d.mu.Unlock()

	notifyBlur(blurFn)
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
