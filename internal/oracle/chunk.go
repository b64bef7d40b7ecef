package oracle

import (
	"strings"
	"unicode/utf8"
)

// SplitChunks cuts text into pieces of at most maxChars bytes, preferring page
// (form feed) boundaries, then line boundaries. Blank pieces are dropped.
// maxChars <= 0 means a single chunk.
func SplitChunks(text string, maxChars int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}

	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			out = append(out, cur.String())
		}
		cur.Reset()
	}
	add := func(piece, sep string) {
		if cur.Len() > 0 && cur.Len()+len(sep)+len(piece) > maxChars {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString(sep)
		}
		cur.WriteString(piece)
	}

	for _, page := range strings.Split(text, "\f") {
		if len(page) <= maxChars {
			add(page, "\f")
			continue
		}
		flush()
		for _, line := range strings.Split(page, "\n") {
			for len(line) > maxChars {
				cut := maxChars
				for cut > 0 && !utf8.RuneStart(line[cut]) {
					cut--
				}
				if cut == 0 {
					// a rune wider than maxChars goes out whole
					_, cut = utf8.DecodeRuneInString(line)
				}
				add(line[:cut], "\n")
				flush()
				line = line[cut:]
			}
			add(line, "\n")
		}
		flush()
	}
	flush()
	return out
}
