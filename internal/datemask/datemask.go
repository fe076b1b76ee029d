// Package datemask formats free-text date input into DD.MM.YYYY and
// validates the result.
//
// The checks are deliberately loose: month must be in 1..12 and day in
// 1..31, with no days-per-month or leap-year rules. An empty value is
// valid because date fields are optional until the user types something.
package datemask

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Layout is the only accepted date shape.
const Layout = "DD.MM.YYYY"

// MaxLen is the length of a complete date.
const MaxLen = len(Layout)

// Validation messages. They double as keys of the localisation catalog.
const (
	MsgInvalidFormat = "format must be DD.MM.YYYY"
	MsgInvalidMonth  = "month must be between 1 and 12"
	MsgInvalidDay    = "day must be between 1 and 31"
)

var datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// Validity classifies a formatted date value.
type Validity int

const (
	Valid Validity = iota
	InvalidFormat
	InvalidMonth
	InvalidDay
)

var validityNames = map[Validity]string{
	Valid:         "valid",
	InvalidFormat: "invalid_format",
	InvalidMonth:  "invalid_month",
	InvalidDay:    "invalid_day",
}

func (v Validity) String() string {
	if name, ok := validityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("validity(%d)", int(v))
}

// MarshalText encodes the validity by name.
func (v Validity) MarshalText() ([]byte, error) {
	if _, ok := validityNames[v]; !ok {
		return nil, fmt.Errorf("unknown validity %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText decodes a validity name.
func (v *Validity) UnmarshalText(text []byte) error {
	for k, name := range validityNames {
		if name == string(text) {
			*v = k
			return nil
		}
	}
	return fmt.Errorf("unknown validity %q", text)
}

// Result is the outcome of FormatAndValidate.
type Result struct {
	Value    string   `json:"value"`
	Validity Validity `json:"validity"`
	Message  string   `json:"message,omitempty"`
}

// OK reports whether the value passed validation.
func (r Result) OK() bool { return r.Validity == Valid }

// Mask applies one input event to the current field value: it strips
// everything except digits and dots, appends a separator once the day or
// month part is complete and truncates to MaxLen. Only the current length
// is considered, not the cursor position or whether the user deleted.
func Mask(value string) string {
	value = strip(value)
	value, _ = insertSeparator(value)
	return truncate(value)
}

// Format replays the stripped input through Mask one character at a time,
// so a pasted burst of digits comes out as if it had been typed. A dot typed
// right after an auto-inserted separator is absorbed.
func Format(raw string) string {
	var (
		value    string
		inserted bool
	)
	for _, r := range strip(raw) {
		if r == '.' && inserted {
			inserted = false
			continue
		}
		value, inserted = insertSeparator(value + string(r))
		value = truncate(value)
	}
	return value
}

// Validate checks a formatted value. Empty input is Valid.
func Validate(value string) (Validity, string) {
	if value == "" {
		return Valid, ""
	}
	if !datePattern.MatchString(value) {
		return InvalidFormat, MsgInvalidFormat
	}

	parts := strings.Split(value, ".")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])

	if month < 1 || month > 12 {
		return InvalidMonth, MsgInvalidMonth
	}
	if day < 1 || day > 31 {
		return InvalidDay, MsgInvalidDay
	}
	return Valid, ""
}

// FormatAndValidate formats raw input and validates the formatted value.
func FormatAndValidate(raw string) Result {
	value := Format(raw)
	validity, msg := Validate(value)
	return Result{Value: value, Validity: validity, Message: msg}
}

func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// insertSeparator reports whether a separator was appended.
func insertSeparator(value string) (string, bool) {
	inserted := false
	if len(value) >= 2 && len(value) < 3 {
		value = value[:2] + "."
		inserted = true
	}
	if len(value) >= 5 && len(value) < 6 {
		value = value[:5] + "."
		inserted = true
	}
	return value, inserted
}

func truncate(value string) string {
	if len(value) > MaxLen {
		return value[:MaxLen]
	}
	return value
}
