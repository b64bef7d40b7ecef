package pipeline

import "strings"

// Mode selects how owner records and delinquent units are read from text.
type Mode string

const (
	ModeDeterministic Mode = "deterministic"
	ModeOracle        Mode = "oracle"
	// ModeAuto asks the oracle only when the deterministic pass finds nothing.
	ModeAuto Mode = "auto"
)

// ParseMode maps a query value to a Mode. Empty input is ModeAuto.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, true
	case ModeDeterministic, "regex":
		return ModeDeterministic, true
	case ModeOracle, "llm":
		return ModeOracle, true
	}
	return ModeAuto, false
}
