package mp4io

import (
	"errors"
	"fmt"
	"strings"
)

var errParse = new(ParseError)

// ParseError reports malformed box data. Each link names the field that
// failed and its absolute offset; links chain from innermost box outward.
type ParseError struct {
	Debug  string
	Offset int
	prev   *ParseError
}

func (p *ParseError) Error() string {
	s := []string{}
	for err := p; err != nil; err = err.prev {
		s = append(s, fmt.Sprintf("%s:%d", err.Debug, err.Offset))
	}
	return "mp4io: parse error: " + strings.Join(s, ",")
}

// parseErr wraps prev with field context. Non-parse errors (stream I/O)
// pass through unmodified.
func parseErr(debug string, offset int, prev error) (err error) {
	if prev != nil && !errors.As(prev, &errParse) {
		return prev
	}
	ppe, _ := prev.(*ParseError) // nolint: errorlint

	return &ParseError{Debug: debug, Offset: offset, prev: ppe}
}
