package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Oracle sends document text plus instructions to a text-understanding service
// and returns its raw, unvalidated reply.
type Oracle interface {
	Ask(ctx context.Context, req Request) (string, error)
}

// Request is one oracle call.
type Request struct {
	Text    string
	Profile Profile
	// Part and Parts locate a chunk inside its document (zero-based Part).
	Part  int
	Parts int
}

// UserPrompt is the user message every provider sends for req.
func (r Request) UserPrompt() string {
	return BuildUserPrompt(r.Text, r.Part, r.Parts)
}

// PreviewBytes bounds the raw output echoed back to callers.
const PreviewBytes = 2000

var ErrNoChunkSucceeded = errors.New("no oracle chunk could be parsed")

// ParseError reports an oracle reply that could not be turned into records.
type ParseError struct {
	Preview string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse oracle output: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func newParseError(raw string, cause error) *ParseError {
	return &ParseError{Preview: Preview(raw), Cause: cause}
}

// ChunkError records a chunk that contributed no records.
type ChunkError struct {
	Index   int
	Err     error
	Preview string
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e ChunkError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		Chunk      int    `json:"chunk"`
		Erro       string `json:"erro"`
		RawPreview string `json:"raw_preview,omitempty"`
	}{e.Index, msg, e.Preview})
}

// Preview cuts s to PreviewBytes without splitting a UTF-8 sequence.
func Preview(s string) string {
	if len(s) <= PreviewBytes {
		return s
	}
	cut := PreviewBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
