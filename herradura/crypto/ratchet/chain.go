package ratchet

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidKey        = errors.New("ratchet: chain key must be 32 bytes")
	ErrExhausted         = errors.New("ratchet: maximum generation reached")
	ErrInvalidGeneration = errors.New("ratchet: invalid generation number")
	ErrShortMessage      = errors.New("ratchet: message too short")
	ErrDecryptionFailed  = errors.New("ratchet: decryption failed")
)

// MaxGeneration is the number of steps after which the chain must be rekeyed.
const MaxGeneration = 1 << 32

const keySize = chacha20poly1305.KeySize

var stepInfo = []byte("herradura-ratchet-step")

// step expands a chain key into (next chain key, message key).
func step(chainKey [keySize]byte) (next, msg [keySize]byte) {
	r := hkdf.New(sha256.New, chainKey[:], nil, stepInfo)
	// A 64-byte HKDF-SHA256 read cannot fail.
	_, _ = io.ReadFull(r, next[:])
	_, _ = io.ReadFull(r, msg[:])
	return next, msg
}

// Message key is used for exactly one message, so a fixed nonce is safe.
var zeroNonce [chacha20poly1305.NonceSize]byte

func seal(msgKey [keySize]byte, plaintext, ad []byte) ([]byte, error) {
	c, err := chacha20poly1305.New(msgKey[:])
	if err != nil {
		return nil, err
	}
	return c.Seal(nil, zeroNonce[:], plaintext, ad), nil
}

func open(msgKey [keySize]byte, ciphertext, ad []byte) ([]byte, error) {
	c, err := chacha20poly1305.New(msgKey[:])
	if err != nil {
		return nil, err
	}
	pt, err := c.Open(nil, zeroNonce[:], ciphertext, ad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return pt, nil
}

func toKey(b []byte) ([keySize]byte, error) {
	var k [keySize]byte
	if len(b) != keySize {
		return k, ErrInvalidKey
	}
	copy(k[:], b)
	return k, nil
}

// Chain is the sending half of a ratchet.
type Chain struct {
	mu         sync.Mutex
	chainKey   [keySize]byte
	generation uint64
}

// NewChain starts a chain from a 32-byte key.
func NewChain(key []byte) (*Chain, error) {
	k, err := toKey(key)
	if err != nil {
		return nil, err
	}
	return &Chain{chainKey: k}, nil
}

// Generation returns the generation of the next sealed message.
func (c *Chain) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Seal encrypts plaintext under the current message key and advances the chain.
func (c *Chain) Seal(plaintext, ad []byte) (EncryptedMessage, error) {
	c.mu.Lock()
	if c.generation >= MaxGeneration {
		c.mu.Unlock()
		return EncryptedMessage{}, ErrExhausted
	}
	next, msgKey := step(c.chainKey)
	gen := c.generation
	c.chainKey = next
	c.generation++
	c.mu.Unlock()

	ct, err := seal(msgKey, plaintext, ad)
	if err != nil {
		return EncryptedMessage{}, err
	}
	return EncryptedMessage{Generation: gen, Ciphertext: ct}, nil
}

// Receiver is the receiving half. It tolerates reordering of up to maxSkip
// messages by caching the message keys it skipped over.
type Receiver struct {
	mu       sync.Mutex
	chainKey [keySize]byte
	next     uint64
	skipped  map[uint64][keySize]byte
	maxSkip  int
}

// NewReceiver starts a receiver from the sender's initial key.
func NewReceiver(key []byte, maxSkip int) (*Receiver, error) {
	k, err := toKey(key)
	if err != nil {
		return nil, err
	}
	return &Receiver{chainKey: k, skipped: make(map[uint64][keySize]byte), maxSkip: maxSkip}, nil
}

// Open decrypts msg. Each generation can be opened once.
func (r *Receiver) Open(msg EncryptedMessage, ad []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen := msg.Generation
	if gen < r.next {
		msgKey, ok := r.skipped[gen]
		if !ok {
			return nil, ErrInvalidGeneration
		}
		pt, err := open(msgKey, msg.Ciphertext, ad)
		if err != nil {
			return nil, err
		}
		delete(r.skipped, gen)
		return pt, nil
	}
	if gen-r.next > uint64(r.maxSkip) {
		return nil, ErrInvalidGeneration
	}

	// Walk forward without committing until the message authenticates.
	chainKey := r.chainKey
	var pending [][keySize]byte
	for i := r.next; i < gen; i++ {
		var mk [keySize]byte
		chainKey, mk = step(chainKey)
		pending = append(pending, mk)
	}
	chainKey, msgKey := step(chainKey)
	pt, err := open(msgKey, msg.Ciphertext, ad)
	if err != nil {
		return nil, err
	}
	for i, mk := range pending {
		r.skipped[r.next+uint64(i)] = mk
	}
	r.chainKey = chainKey
	r.next = gen + 1
	return pt, nil
}

// EncryptedMessage is a ciphertext tagged with its chain generation.
type EncryptedMessage struct {
	Generation uint64
	Ciphertext []byte
}

// Encode serializes m as generation (8 bytes, big-endian) || ciphertext.
func (m EncryptedMessage) Encode() []byte {
	out := make([]byte, 8+len(m.Ciphertext))
	binary.BigEndian.PutUint64(out, m.Generation)
	copy(out[8:], m.Ciphertext)
	return out
}

// DecodeEncryptedMessage parses the output of Encode.
func DecodeEncryptedMessage(data []byte) (EncryptedMessage, error) {
	if len(data) < 8 {
		return EncryptedMessage{}, ErrShortMessage
	}
	return EncryptedMessage{
		Generation: binary.BigEndian.Uint64(data[:8]),
		Ciphertext: append([]byte(nil), data[8:]...),
	}, nil
}
