package scheme

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/TheusHen/herradura/herradura/bitvec"
)

// PublicKeyTOML is the TOML-able version of a public key.
type PublicKeyTOML struct {
	Bits int    `toml:"bits"`
	R    int    `toml:"r"`
	C    string `toml:"c"`
	B2   string `toml:"b2"`
	A2   string `toml:"a2"`
}

// PrivateKeyTOML is the TOML-able version of a private key.
type PrivateKeyTOML struct {
	Bits int    `toml:"bits"`
	R    int    `toml:"r"`
	C2   string `toml:"c2"`
	B    string `toml:"b"`
	A    string `toml:"a"`
}

// TOML returns a struct that can be marshalled with a TOML encoder.
func (pk PublicKey) TOML() *PublicKeyTOML {
	return &PublicKeyTOML{Bits: pk.Bits(), R: pk.R, C: pk.C.Hex(), B2: pk.B2.Hex(), A2: pk.A2.Hex()}
}

// FromTOML loads the public key from its decoded TOML form.
func (pk *PublicKey) FromTOML(t *PublicKeyTOML) error {
	vs, err := parseAll(t.Bits, t.C, t.B2, t.A2)
	if err != nil {
		return fmt.Errorf("scheme: public key: %w", err)
	}
	*pk = PublicKey{C: vs[0], B2: vs[1], A2: vs[2], R: t.R}
	return nil
}

// TOML returns a struct that can be marshalled with a TOML encoder.
func (sk PrivateKey) TOML() *PrivateKeyTOML {
	return &PrivateKeyTOML{Bits: sk.Bits(), R: sk.R, C2: sk.C2.Hex(), B: sk.B.Hex(), A: sk.A.Hex()}
}

// FromTOML loads the private key from its decoded TOML form.
func (sk *PrivateKey) FromTOML(t *PrivateKeyTOML) error {
	vs, err := parseAll(t.Bits, t.C2, t.B, t.A)
	if err != nil {
		return fmt.Errorf("scheme: private key: %w", err)
	}
	*sk = PrivateKey{C2: vs[0], B: vs[1], A: vs[2], R: t.R}
	return nil
}

func parseAll(bits int, hexes ...string) ([]bitvec.Vector, error) {
	out := make([]bitvec.Vector, len(hexes))
	for i, h := range hexes {
		v, err := bitvec.ParseHex(bits, h)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WritePublicKey encodes pk as TOML.
func WritePublicKey(w io.Writer, pk PublicKey) error {
	return toml.NewEncoder(w).Encode(pk.TOML())
}

// ReadPublicKey decodes a TOML public key and checks it against its own width.
func ReadPublicKey(r io.Reader) (PublicKey, error) {
	var t PublicKeyTOML
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return PublicKey{}, err
	}
	var pk PublicKey
	if err := pk.FromTOML(&t); err != nil {
		return PublicKey{}, err
	}
	p, err := NewParams(t.Bits)
	if err != nil {
		return PublicKey{}, err
	}
	if err := pk.check(p); err != nil {
		return PublicKey{}, err
	}
	return pk, nil
}

// WritePrivateKey encodes sk as TOML.
func WritePrivateKey(w io.Writer, sk PrivateKey) error {
	return toml.NewEncoder(w).Encode(sk.TOML())
}

// ReadPrivateKey decodes a TOML private key and checks it against its own width.
func ReadPrivateKey(r io.Reader) (PrivateKey, error) {
	var t PrivateKeyTOML
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return PrivateKey{}, err
	}
	var sk PrivateKey
	if err := sk.FromTOML(&t); err != nil {
		return PrivateKey{}, err
	}
	p, err := NewParams(t.Bits)
	if err != nil {
		return PrivateKey{}, err
	}
	if err := sk.check(p); err != nil {
		return PrivateKey{}, err
	}
	return sk, nil
}
