package message

import (
	"errors"

	"github.com/klauspost/reedsolomon"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

var (
	ErrTooManyLost = errors.New("message: too many shards lost, cannot recover")
	ErrNoParity    = errors.New("message: codec has no parity shards")
	ErrShardCount  = errors.New("message: shard count does not match parity configuration")
	ErrShardSize   = errors.New("message: shard size does not match block width")
)

func (c Codec) encoder(dataShards int) (reedsolomon.Encoder, error) {
	if c.ParityShards <= 0 {
		return nil, ErrNoParity
	}
	if dataShards <= 0 {
		return nil, ErrShardCount
	}
	return reedsolomon.New(dataShards, c.ParityShards)
}

// Protect returns the blocks as data shards followed by ParityShards parity
// shards. Any ParityShards of the result may be lost.
func (c Codec) Protect(blocks []bitvec.Vector) ([][]byte, error) {
	enc, err := c.encoder(len(blocks))
	if err != nil {
		return nil, err
	}
	bs := c.blockSize()
	shards := make([][]byte, len(blocks)+c.ParityShards)
	for i, b := range blocks {
		if b.Bits() != c.Params.Bits {
			return nil, ErrShardSize
		}
		shards[i] = b.Bytes()
	}
	for i := len(blocks); i < len(shards); i++ {
		shards[i] = make([]byte, bs)
	}
	if err := enc.Encode(shards); err != nil {
		return nil, err
	}
	return shards, nil
}

// Recover rebuilds the data blocks from the output of Protect. Lost shards
// are passed as nil.
func (c Codec) Recover(shards [][]byte) ([]bitvec.Vector, error) {
	dataShards := len(shards) - c.ParityShards
	enc, err := c.encoder(dataShards)
	if err != nil {
		return nil, err
	}
	bs := c.blockSize()
	work := make([][]byte, len(shards))
	for i, s := range shards {
		if s == nil {
			continue
		}
		if len(s) != bs {
			return nil, ErrShardSize
		}
		work[i] = append([]byte(nil), s...)
	}
	if err := enc.ReconstructData(work); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return nil, ErrTooManyLost
		}
		return nil, err
	}
	blocks := make([]bitvec.Vector, dataShards)
	for i := range blocks {
		v, err := bitvec.FromBytes(c.Params.Bits, work[i])
		if err != nil {
			return nil, err
		}
		blocks[i] = v
	}
	return blocks, nil
}
