package ticker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"marketmood/internal/models"
)

// ErrInvalidTicker is returned when user input cannot be resolved into an
// exchange-qualified symbol.
var ErrInvalidTicker = errors.New("invalid ticker")

// Symbols are letters/digits with & and - allowed (M&M.NS, BAJAJ-AUTO.NS),
// optionally followed by a short exchange suffix.
var symbolRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9&-]*(\.[A-Z]{1,4})?$`)

// Resolver normalizes raw user input into a Ticker. Bare symbols get the
// configured default exchange suffix appended.
type Resolver struct {
	DefaultSuffix string
}

// Resolve trims, uppercases and validates the raw symbol. It is idempotent:
// resolving an already-resolved ticker yields the same value.
func (r Resolver) Resolve(raw string) (models.Ticker, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrInvalidTicker)
	}

	if !symbolRegex.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
	}

	if !strings.Contains(s, ".") {
		suffix := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(r.DefaultSuffix), "."))
		if suffix != "" {
			s = s + "." + suffix
		}
	}

	return models.Ticker(s), nil
}
