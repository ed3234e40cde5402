package naming

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChihweiLHBird/wing/core/ast"
)

func spanAt(file string, line, col int) ast.Span {
	return ast.Span{
		File:  file,
		Start: ast.Position{Line: line, Column: col, Offset: line*100 + col},
		End:   ast.Position{Line: line, Column: col + 10},
	}
}

// TestCounterNamer verifies counter names are sequential and start at 1
func TestCounterNamer(t *testing.T) {
	n := NewCounterNamer()
	got := []string{
		n.Next(ast.Span{}),
		n.Next(ast.Span{}),
		n.Next(spanAt("main.w", 3, 1)),
	}
	want := []string{"$Resource1", "$Resource2", "$Resource3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

// TestCounterNamerPrefix verifies WithPrefix replaces the default prefix
func TestCounterNamerPrefix(t *testing.T) {
	n := NewCounterNamer(WithPrefix("$Handler"))
	assert.Equal(t, "$Handler1", n.Next(ast.Span{}))
}

// TestCounterNamersIndependent verifies each compilation unit restarts numbering
func TestCounterNamersIndependent(t *testing.T) {
	a := NewCounterNamer()
	b := NewCounterNamer()
	a.Next(ast.Span{})
	assert.Equal(t, "$Resource1", b.Next(ast.Span{}))
}

// TestHashedNamerDeterministic verifies equal keys and spans give equal names
func TestHashedNamerDeterministic(t *testing.T) {
	key := bytes.Repeat([]byte{7}, UnitKeySize)
	spans := []ast.Span{spanAt("main.w", 3, 9), spanAt("main.w", 8, 2)}

	run := func() []string {
		n := NewHashedNamer(key)
		var names []string
		for _, s := range spans {
			names = append(names, n.Next(s))
		}
		return names
	}

	first := run()
	if diff := cmp.Diff(first, run()); diff != "" {
		t.Errorf("hashed names not stable across runs (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first[0], first[1])
	for _, name := range first {
		assert.True(t, strings.HasPrefix(name, DefaultPrefix+"_"), "unexpected name %q", name)
	}
}

// TestHashedNamerKeyed verifies different units produce different names for the same span
func TestHashedNamerKeyed(t *testing.T) {
	span := spanAt("main.w", 3, 9)
	a := NewHashedNamer(bytes.Repeat([]byte{1}, UnitKeySize)).Next(span)
	b := NewHashedNamer(bytes.Repeat([]byte{2}, UnitKeySize)).Next(span)
	assert.NotEqual(t, a, b)
}

// TestHashedNamerSameSpan verifies nodes sharing a span still get unique names
func TestHashedNamerSameSpan(t *testing.T) {
	n := NewHashedNamer(make([]byte, UnitKeySize))
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := n.Next(ast.Span{})
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

// TestHashedNamerKeySize verifies a wrong-sized key is a precondition violation
func TestHashedNamerKeySize(t *testing.T) {
	assert.Panics(t, func() { NewHashedNamer([]byte("short")) })
}

// TestEncodeBase58 verifies encoding of boundary values
func TestEncodeBase58(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"zero", make([]byte, 8), "11111111"},
		{"one", []byte{0, 0, 0, 0, 0, 0, 0, 1}, "11111112"},
		{"fifty eight", []byte{0, 0, 0, 0, 0, 0, 0, 58}, "111111121"},
		{"max", bytes.Repeat([]byte{0xff}, 8), "jpXCZedGfVQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeBase58(tt.input))
		})
	}
}
