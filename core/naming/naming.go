// Package naming generates names for types synthesized by compiler passes.
//
// Generated names start with '$', which the lexer never accepts in a user
// identifier, so they cannot collide with declared types. Uniqueness among
// generated names is per Namer: use one Namer per compilation unit.
package naming

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2s"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/invariant"
)

// DefaultPrefix is the name prefix for lifted resource classes.
const DefaultPrefix = "$Resource"

// Namer hands out unique type names.
type Namer interface {
	// Next returns a name not previously returned by this Namer.
	// span is the location of the node the name is generated for.
	Next(span ast.Span) string
}

// Option configures a Namer.
type Option func(*config)

type config struct {
	prefix string
}

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

func newConfig(opts []Option) config {
	c := config{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&c)
	}
	invariant.Precondition(c.prefix != "", "name prefix must not be empty")
	return c
}

// ================================================================================================
// COUNTER NAMER
// ================================================================================================

type counterNamer struct {
	prefix string
	next   int
}

// NewCounterNamer returns a Namer producing prefix1, prefix2, ...
func NewCounterNamer(opts ...Option) Namer {
	c := newConfig(opts)
	return &counterNamer{prefix: c.prefix, next: 1}
}

func (n *counterNamer) Next(ast.Span) string {
	name := fmt.Sprintf("%s%d", n.prefix, n.next)
	n.next++
	return name
}

// ================================================================================================
// HASHED NAMER
// ================================================================================================

// UnitKeySize is the required length of a hashed namer's unit key.
const UnitKeySize = 32

type hashedNamer struct {
	prefix  string
	key     []byte
	ordinal uint64
	seen    map[string]struct{}
}

// NewHashedNamer returns a Namer whose names are derived from the span they are
// generated for, keyed by a digest of the compilation unit.
//
// PRF: BLAKE2s-128(unitKey, file || line || column || offset || ordinal)
// Output: prefix + "_" + base58(first 8 bytes)
//
// Names are stable across runs for an unchanged unit, and differ between units
// even at equal spans. The ordinal separates nodes that share a span.
func NewHashedNamer(unitKey []byte, opts ...Option) Namer {
	invariant.Precondition(len(unitKey) == UnitKeySize,
		"unit key must be %d bytes, got %d", UnitKeySize, len(unitKey))
	c := newConfig(opts)

	key := make([]byte, UnitKeySize)
	copy(key, unitKey)

	return &hashedNamer{
		prefix: c.prefix,
		key:    key,
		seen:   make(map[string]struct{}),
	}
}

func (n *hashedNamer) Next(span ast.Span) string {
	h, err := blake2s.New128(n.key)
	invariant.Invariant(err == nil, "blake2s key rejected: %v", err)

	var num [8]byte
	h.Write([]byte(span.File))
	h.Write([]byte{0})
	for _, v := range []int{span.Start.Line, span.Start.Column, span.Start.Offset} {
		binary.BigEndian.PutUint64(num[:], uint64(v))
		h.Write(num[:])
	}
	binary.BigEndian.PutUint64(num[:], n.ordinal)
	h.Write(num[:])
	n.ordinal++

	digest := h.Sum(nil)
	name := n.prefix + "_" + encodeBase58(digest[:8])

	_, dup := n.seen[name]
	invariant.Invariant(!dup, "generated name %s for %s is not unique", name, span)
	n.seen[name] = struct{}{}

	return name
}
