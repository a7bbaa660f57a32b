package header

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// canonicalTemplate is the position-free form of a template. Two templates
// with the same canonical form compile to the same rules.
type canonicalTemplate struct {
	Name      string           `cbor:"1,keyasint"`
	Kind      int              `cbor:"2,keyasint"`
	Runtime   string           `cbor:"3,keyasint,omitempty"`
	Receivers []string         `cbor:"4,keyasint,omitempty"`
	Pieces    []canonicalPiece `cbor:"5,keyasint"`
}

type canonicalPiece struct {
	Kind       int      `cbor:"1,keyasint"`
	Candidates []string `cbor:"2,keyasint,omitempty"`
	Names      []string `cbor:"3,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: canonical encoder: %v", err))
	}
}

// MarshalBinary encodes the template deterministically, leaving out token
// positions so that moving a declaration does not change its encoding.
func (t *Template) MarshalBinary() ([]byte, error) {
	ct := canonicalTemplate{
		Name:      t.Name,
		Kind:      int(t.Kind),
		Runtime:   t.Runtime,
		Receivers: t.Receivers,
		Pieces:    make([]canonicalPiece, len(t.Pieces)),
	}
	for i, p := range t.Pieces {
		ct.Pieces[i] = canonicalPiece{Kind: int(p.Kind), Candidates: p.Candidates, Names: p.Names}
	}
	data, err := encMode.Marshal(ct)
	if err != nil {
		return nil, fmt.Errorf("encode template %q: %w", t.Name, err)
	}
	return data, nil
}

// Digest fingerprints the template's canonical encoding.
func (t *Template) Digest() ([32]byte, error) {
	data, err := t.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// DigestAll fingerprints a list of templates in order.
func DigestAll(templates []*Template) ([32]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, fmt.Errorf("blake2b: %w", err)
	}
	for _, t := range templates {
		data, err := t.MarshalBinary()
		if err != nil {
			return [32]byte{}, err
		}
		h.Write(data)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
