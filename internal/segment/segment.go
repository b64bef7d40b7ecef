package segment

import (
	"regexp"
	"strings"
)

// Segment is the text attributed to one unit marker occurrence.
type Segment struct {
	RawUnit string
	Text    string
}

// SegmentByUnit splits text at every match of marker. A segment runs from the end of its
// marker to the start of the next one (or end of text). Document order is preserved and
// repeated units are kept as separate segments. The raw unit is the marker's capture
// groups joined by a space, or the whole match when the pattern has no groups.
func SegmentByUnit(text string, marker *regexp.Regexp) []Segment {
	if marker == nil || text == "" {
		return nil
	}
	locs := marker.FindAllStringSubmatchIndex(text, -1)
	segs := make([]Segment, 0, len(locs))
	for i, loc := range locs {
		if loc[1] == loc[0] {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segs = append(segs, Segment{
			RawUnit: unitFromMatch(text, loc),
			Text:    text[loc[1]:end],
		})
	}
	return segs
}

// UnitTokens returns the raw unit of every match of pattern, in document order.
func UnitTokens(text string, pattern *regexp.Regexp) []string {
	if pattern == nil {
		return nil
	}
	locs := pattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]string, 0, len(locs))
	for _, loc := range locs {
		if u := unitFromMatch(text, loc); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func unitFromMatch(text string, loc []int) string {
	if len(loc) <= 2 {
		return strings.TrimSpace(text[loc[0]:loc[1]])
	}
	parts := make([]string, 0, len(loc)/2-1)
	for g := 2; g+1 < len(loc); g += 2 {
		if loc[g] < 0 || loc[g+1] <= loc[g] {
			continue
		}
		if p := strings.TrimSpace(text[loc[g]:loc[g+1]]); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
