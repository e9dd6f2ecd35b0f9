package widget

import (
	"strconv"
	"strings"
)

// CurrencyInput edits a whole amount. While focused the display shows the
// raw digits; once blurred it shows them grouped by thousands.
type CurrencyInput struct {
	base[int64]
	Currency string
	min      int64
	max      int64
	hasMax   bool
	focused  bool
	display  string
}

type CurrencyOption func(*CurrencyInput)

func WithMin(value int64) CurrencyOption {
	return func(c *CurrencyInput) {
		c.min = value
	}
}

func WithMax(value int64) CurrencyOption {
	return func(c *CurrencyInput) {
		c.max = value
		c.hasMax = true
	}
}

func NewCurrencyInput(opts ...CurrencyOption) *CurrencyInput {
	c := &CurrencyInput{Currency: "FCFA"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CurrencyInput) SetValue(value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value < 0 {
		value = 0
	}
	c.value = value
	c.display = ""
	if value > 0 {
		c.display = FormatThousands(value)
	}
}

// Input applies what the user typed. Everything but digits is dropped and
// the result is clamped to the configured bounds.
func (c *CurrencyInput) Input(raw string) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return
	}

	value := ParseAmount(raw)
	if c.hasMax && value > c.max {
		value = c.max
	}
	if value < c.min {
		value = c.min
	}

	c.value = value
	if c.focused {
		c.display = strconv.FormatInt(value, 10)
	} else {
		c.display = FormatThousands(value)
	}
	changeFn, _ := c.listenersLocked()
	c.mu.Unlock()

	notifyChange(changeFn, value)
}

func (c *CurrencyInput) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.focused = true
	c.display = ""
	if c.value > 0 {
		c.display = strconv.FormatInt(c.value, 10)
	}
}

func (c *CurrencyInput) Blur() {
	c.mu.Lock()
	c.focused = false
	c.display = ""
	if c.value > 0 {
		c.display = FormatThousands(c.value)
	}
	_, blurFn := c.listenersLocked()
	c.mu.Unlock()

	notifyBlur(blurFn)
}

func (c *CurrencyInput) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// FormatThousands groups digits by three with spaces: 1500000 -> "1 500 000".
func FormatThousands(value int64) string {
	digits := strconv.FormatInt(value, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	return sign + b.String()
}

// ParseAmount keeps the digits of raw. No digits, or an overflowing amount,
// yields 0.
func ParseAmount(raw string) int64 {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
