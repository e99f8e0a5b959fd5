package domain

import (
	"errors"
	"strconv"
	"strings"
)

// ErrConfiguration is the sentinel every ConfigurationError unwraps to.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports required settings that are absent or malformed.
// It is raised before a simulation starts, never from inside the monthly loop.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing settings: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid settings: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return ErrConfiguration.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// Fields returns every offending field name, missing first.
func (e *ConfigurationError) Fields() []string {
	out := make([]string, 0, len(e.Missing)+len(e.Invalid))
	out = append(out, e.Missing...)
	return append(out, e.Invalid...)
}

func (e *ConfigurationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

func itoa(i int) string { return strconv.Itoa(i) }
