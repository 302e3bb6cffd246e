package ggcache

import (
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/goldrun/internal/golderr"
	"github.com/dekarrin/goldrun/internal/grammar"
)

// Save encodes a linked grammar.Tables to a binary blob suitable for
// writing to disk and later passed to Load.
func Save(t *grammar.Tables) ([]byte, error) {
	ct, err := flatten(t)
	if err != nil {
		return nil, golderr.New("flatten grammar tables for caching", err)
	}
	return rezi.EncBinary(ct), nil
}

// Load decodes a blob previously produced by Save back into a linked
// grammar.Tables, with all pointer cross-references re-established.
func Load(data []byte) (*grammar.Tables, error) {
	var ct cachedTables
	n, err := rezi.DecBinary(data, &ct)
	if err != nil {
		return nil, golderr.New("decode cached grammar tables", err)
	}
	if n != len(data) {
		return nil, golderr.New(fmt.Sprintf("cached grammar tables: only consumed %d/%d bytes", n, len(data)))
	}

	t, err := unflatten(&ct)
	if err != nil {
		return nil, golderr.New("unflatten cached grammar tables", err)
	}
	return t, nil
}
