package astfmt

import (
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/ChihweiLHBird/wing/core/ast"
)

// canonicalMode sorts map keys and uses shortest-form integers.
var canonicalMode = sync.OnceValues(func() (cbor.EncMode, error) {
	return cbor.CanonicalEncOptions().EncMode()
})

// Canonical returns the deterministic CBOR encoding of m. Equal trees always
// produce equal bytes.
func Canonical(m *ast.Module) ([]byte, error) {
	em, err := canonicalMode()
	if err != nil {
		return nil, fmt.Errorf("create canonical encoder: %w", err)
	}
	data, err := em.Marshal(encodeDocument(m))
	if err != nil {
		return nil, fmt.Errorf("encode cbor: %w", err)
	}
	return data, nil
}

// Digest returns the BLAKE2b-256 hash of the canonical encoding of m.
func Digest(m *ast.Module) ([32]byte, error) {
	data, err := Canonical(m)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}
