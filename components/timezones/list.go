package timezones

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

//go:embed data/iana_timezones.txt
var embeddedZones []byte

// ErrInvalidZoneName is returned by ParseZones for lines that cannot be an
// IANA identifier.
var ErrInvalidZoneName = errors.New("timezones: invalid zone name")

var loadDefaultZones = sync.OnceValues(func() ([]string, error) {
	return ParseZones(bytes.NewReader(embeddedZones))
})

// DefaultZones returns a sorted copy of the embedded zone list.
func DefaultZones() ([]string, error) {
	zones, err := loadDefaultZones()
	if err != nil {
		return nil, err
	}
	return slices.Clone(zones), nil
}

// ParseZones reads one zone per line, skipping blanks and # comments, and
// returns the distinct names sorted.
func ParseZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, errors.New("timezones: missing reader")
	}

	scanner := bufio.NewScanner(r)
	zones := make([]string, 0, 512)
	line := 0
	for scanner.Scan() {
		line++
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if !validZoneName(name) {
			return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidZoneName, line, name)
		}
		zones = append(zones, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("timezones: read list: %w", err)
	}

	slices.Sort(zones)
	return slices.Compact(zones), nil
}

func validZoneName(name string) bool {
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.Contains(name, "//") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '/', r == '_', r == '-', r == '+':
		default:
			return false
		}
	}
	return true
}
