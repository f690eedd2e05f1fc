package normattiva

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	urnPattern  = regexp.MustCompile(`^urn:nir:[a-z.]+:[a-z.]+:\d{4}-\d{2}-\d{2};[0-9a-z-]+$`)
)

// ErrBadURN indicates an identifier that is not a valid URN-NIR.
var ErrBadURN = errors.New("normattiva: invalid urn")

// BuildURN assembles a URN-NIR identifier for a state act, e.g.
// BuildURN("legge", "2000-07-27", "212") yields
// "urn:nir:stato:legge:2000-07-27;212".
func BuildURN(actType, date, number string) (string, error) {
	actType = strings.ToLower(strings.TrimSpace(actType))
	if actType == "" {
		return "", fmt.Errorf("%w: empty act type", ErrBadURN)
	}
	if !datePattern.MatchString(date) {
		return "", fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrBadURN, date)
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return "", fmt.Errorf("%w: empty act number", ErrBadURN)
	}
	return fmt.Sprintf("urn:nir:stato:%s:%s;%s", actType, date, number), nil
}

// ValidateURN checks a caller-supplied URN-NIR identifier.
func ValidateURN(urn string) error {
	if !urnPattern.MatchString(urn) {
		return fmt.Errorf("%w: %q", ErrBadURN, urn)
	}
	return nil
}
