package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Document is the role of a PDF inside a pair.
type Document uint8

const (
	Unknown Document = iota
	Contacts
	Delinquent
)

var suffixes = []struct {
	word string
	doc  Document
}{
	{"contatos", Contacts},
	{"inadimplentes", Delinquent},
	{"inadimplencia", Delinquent},
	{"inadimplência", Delinquent},
}

// Classify splits a file name like "ipes.contatos.pdf", "ipes-inadimplentes.pdf" or
// "ipes_contatos.pdf" into the pair name and the document role.
func Classify(path string) (name string, doc Document) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	lower := strings.ToLower(stem)
	for _, s := range suffixes {
		if !strings.HasSuffix(lower, s.word) {
			continue
		}
		rest := stem[:len(stem)-len(s.word)]
		if rest == "" {
			return "", Unknown
		}
		switch rest[len(rest)-1] {
		case '.', '-', '_', ' ':
			return strings.TrimSpace(rest[:len(rest)-1]), s.doc
		}
	}
	return "", Unknown
}

// Pair is a complete contacts + delinquency document set.
type Pair struct {
	Name           string
	Dir            string
	ContactsPath   string
	DelinquentPath string
}

// Pairs groups PDFs into pairs and reports each complete pair once. A pair is reported
// again only after one of its documents is replaced.
type Pairs struct {
	mu      sync.Mutex
	partial map[string]*Pair
	done    map[string]Pair
}

func NewPairs() *Pairs {
	return &Pairs{partial: map[string]*Pair{}, done: map[string]Pair{}}
}

// Add records path and returns the pair it completes, if any.
func (p *Pairs) Add(path string) (Pair, bool) {
	name, doc := Classify(path)
	if doc == Unknown || !AllowedExt(filepath.Ext(path)) {
		return Pair{}, false
	}
	if _, err := os.Stat(path); err != nil {
		return Pair{}, false
	}

	dir := filepath.Dir(path)
	key := filepath.Join(dir, strings.ToLower(name))

	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok := p.partial[key]
	if !ok {
		cur = &Pair{Name: name, Dir: dir}
		if prev, seen := p.done[key]; seen {
			c := prev
			cur = &c
		}
		p.partial[key] = cur
	}
	switch doc {
	case Contacts:
		cur.ContactsPath = path
	case Delinquent:
		cur.DelinquentPath = path
	}
	if cur.ContactsPath == "" || cur.DelinquentPath == "" {
		return Pair{}, false
	}
	delete(p.partial, key)
	p.done[key] = *cur
	return *cur, true
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Pairs   uint32
	Orphans uint32
}

// ScanDirectory walks root and returns the complete pairs found, sorted by name.
// Documents without a partner are counted as orphans.
func ScanDirectory(root string, skipHidden bool) ([]Pair, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var stats DirStats
	pairs := NewPairs()
	var found []Pair

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if _, doc := Classify(path); doc == Unknown || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		if pair, ok := pairs.Add(path); ok {
			found = append(found, pair)
		}
		return nil
	})
	if err != nil {
		return found, stats, fmt.Errorf("walk: %w", err)
	}

	stats.Pairs = uint32(len(found))
	stats.Orphans = stats.Matched - 2*stats.Pairs
	slices.SortFunc(found, func(a, b Pair) int {
		return strings.Compare(filepath.Join(a.Dir, a.Name), filepath.Join(b.Dir, b.Name))
	})
	return found, stats, nil
}
