package timezones

import (
	"sort"
	"strings"
	"time"
)

// Option is one entry of the zone picker.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Offset string `json:"offset,omitempty"`
}

// Search filters zones by a case-insensitive substring. Pinned zones rank
// first, then prefix matches, then the remaining matches alphabetically.
func Search(zones []string, query string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	pinned := make(map[string]int, len(opts.Pinned))
	for idx, zone := range opts.Pinned {
		pinned[zone] = idx
	}

	query = strings.TrimSpace(query)
	if query == "" && opts.EmptySearchMode != EmptySearchTop {
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedZone, 0, 32)
	for _, zone := range zones {
		lowerZone := strings.ToLower(zone)
		if !strings.Contains(lowerZone, q) {
			continue
		}
		rank, isPinned := pinned[zone]
		matches = append(matches, matchedZone{
			name:       zone,
			isPrefix:   q != "" && strings.HasPrefix(lowerZone, q),
			isPinned:   isPinned,
			pinnedRank: rank,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.isPinned != b.isPinned {
			return a.isPinned
		}
		if a.isPinned {
			return a.pinnedRank < b.pinnedRank
		}
		if a.isPrefix != b.isPrefix {
			return a.isPrefix
		}
		return a.name < b.name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.name)
	}
	return out
}

// SearchOptions runs Search and labels each zone with its current UTC offset.
// Zones the runtime cannot load keep a bare label.
func SearchOptions(zones []string, query string, limit int, opts Options) []Option {
	results := Search(zones, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}

	out := make([]Option, 0, len(results))
	for _, zone := range results {
		option := Option{Value: zone, Label: zone}
		if loc, err := Resolve(zone); err == nil {
			option.Offset = OffsetLabel(loc, now)
			option.Label = zone + " (" + option.Offset + ")"
		}
		out = append(out, option)
	}
	return out
}

type matchedZone struct {
	name       string
	isPrefix   bool
	isPinned   bool
	pinnedRank int
}
