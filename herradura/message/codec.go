package message

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/scheme"
)

// ErrCorrupt means the unpacked length prefix does not fit the blocks.
var ErrCorrupt = errors.New("message: corrupt block sequence")

const lengthPrefix = 8

// Codec converts payloads to and from blocks of Params.Bits bits.
type Codec struct {
	Params scheme.Params
	// Compress runs LZ4 over the payload before packing.
	Compress bool
	// ParityShards is the number of Reed-Solomon shards Protect adds.
	ParityShards int
}

func (c Codec) blockSize() int { return c.Params.Bits / 8 }

// Pack frames payload into width-sized blocks.
func (c Codec) Pack(payload []byte) ([]bitvec.Vector, error) {
	if err := c.Params.Validate(); err != nil {
		return nil, err
	}
	body := payload
	if c.Compress {
		var err error
		if body, err = compress(payload); err != nil {
			return nil, err
		}
	}

	bs := c.blockSize()
	n := lengthPrefix + len(body)
	if rem := n % bs; rem != 0 {
		n += bs - rem
	}
	buf := make([]byte, n)
	binary.BigEndian.PutUint64(buf, uint64(len(body)))
	copy(buf[lengthPrefix:], body)

	blocks := make([]bitvec.Vector, 0, n/bs)
	for off := 0; off < n; off += bs {
		v, err := bitvec.FromBytes(c.Params.Bits, buf[off:off+bs])
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, v)
	}
	return blocks, nil
}

// Unpack reverses Pack.
func (c Codec) Unpack(blocks []bitvec.Vector) ([]byte, error) {
	buf := make([]byte, 0, len(blocks)*c.blockSize())
	for i, b := range blocks {
		if b.Bits() != c.Params.Bits {
			return nil, fmt.Errorf("%w: %w: block %d has %d bits", scheme.ErrParamsMismatch, bitvec.ErrLengthMismatch, i, b.Bits())
		}
		buf = append(buf, b.Bytes()...)
	}
	if len(buf) < lengthPrefix {
		return nil, ErrCorrupt
	}
	size := binary.BigEndian.Uint64(buf)
	if size > uint64(len(buf)-lengthPrefix) {
		return nil, fmt.Errorf("%w: length %d exceeds %d bytes", ErrCorrupt, size, len(buf)-lengthPrefix)
	}
	body := buf[lengthPrefix : lengthPrefix+int(size)]
	if c.Compress {
		return decompress(body)
	}
	return body, nil
}

func (c Codec) each(blocks []bitvec.Vector, fn func(bitvec.Vector) (bitvec.Vector, error)) ([]bitvec.Vector, error) {
	out := make([]bitvec.Vector, len(blocks))
	for i, b := range blocks {
		v, err := fn(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// SealSymmetric packs payload and encrypts every block with HSKE under key.
func (c Codec) SealSymmetric(payload []byte, key bitvec.Vector) ([]bitvec.Vector, error) {
	blocks, err := c.Pack(payload)
	if err != nil {
		return nil, err
	}
	return c.each(blocks, func(b bitvec.Vector) (bitvec.Vector, error) {
		return scheme.Encrypt(c.Params, b, key)
	})
}

// OpenSymmetric decrypts HSKE blocks and unpacks the payload.
func (c Codec) OpenSymmetric(blocks []bitvec.Vector, key bitvec.Vector) ([]byte, error) {
	plain, err := c.each(blocks, func(b bitvec.Vector) (bitvec.Vector, error) {
		return scheme.Decrypt(c.Params, b, key)
	})
	if err != nil {
		return nil, err
	}
	return c.Unpack(plain)
}

// SealPublic packs payload and encrypts every block with HPKE.
func (c Codec) SealPublic(payload []byte, pk scheme.PublicKey) ([]bitvec.Vector, error) {
	blocks, err := c.Pack(payload)
	if err != nil {
		return nil, err
	}
	return c.each(blocks, func(b bitvec.Vector) (bitvec.Vector, error) {
		return scheme.Seal(c.Params, pk, b)
	})
}

// OpenPrivate decrypts HPKE blocks and unpacks the payload.
func (c Codec) OpenPrivate(blocks []bitvec.Vector, sk scheme.PrivateKey) ([]byte, error) {
	plain, err := c.each(blocks, func(b bitvec.Vector) (bitvec.Vector, error) {
		return scheme.Open(c.Params, sk, b)
	})
	if err != nil {
		return nil, err
	}
	return c.Unpack(plain)
}
