// Package wire defines the frames exchanged on a Herradura control stream.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

// MaxFramePayload limits a single frame payload.
const MaxFramePayload = 1 << 20 // 1 MiB

var (
	ErrFrameTooLarge  = errors.New("wire: frame payload too large")
	ErrInvalidType    = errors.New("wire: invalid message type")
	ErrInvalidVector  = errors.New("wire: malformed vector encoding")
	ErrUnexpectedType = errors.New("wire: unexpected message type")
)

// Frame is the basic wire container:
//
//	1 byte: type
//	4 bytes: payload length (big endian)
//	N bytes: payload
type Frame struct {
	Type    MessageType
	Payload []byte
}

const headerSize = 5

// WriteFrame writes f with a single Write call.
func WriteFrame(w io.Writer, f Frame) error {
	if !f.Type.Valid() {
		return ErrInvalidType
	}
	if len(f.Payload) > MaxFramePayload {
		return ErrFrameTooLarge
	}
	buf := make([]byte, headerSize+len(f.Payload))
	buf[0] = byte(f.Type)
	binary.BigEndian.PutUint32(buf[1:headerSize], uint32(len(f.Payload)))
	copy(buf[headerSize:], f.Payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads exactly one frame and nothing beyond it.
func ReadFrame(r io.Reader) (Frame, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Frame{}, err
	}
	mt := MessageType(hdr[0])
	if !mt.Valid() {
		return Frame{}, fmt.Errorf("%w: %d", ErrInvalidType, hdr[0])
	}
	n := binary.BigEndian.Uint32(hdr[1:])
	if n > MaxFramePayload {
		return Frame{}, fmt.Errorf("%w: %d", ErrFrameTooLarge, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, err
	}
	return Frame{Type: mt, Payload: payload}, nil
}

// ReadFrameOf reads a frame and fails unless it has the wanted type.
func ReadFrameOf(r io.Reader, want MessageType) (Frame, error) {
	f, err := ReadFrame(r)
	if err != nil {
		return Frame{}, err
	}
	if f.Type != want {
		return Frame{}, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedType, f.Type, want)
	}
	return f, nil
}

// EncodeVector writes the bit length as 2 bytes big-endian followed by the
// vector bytes.
func EncodeVector(v bitvec.Vector) []byte {
	out := make([]byte, 2, 2+v.Bits()/8)
	binary.BigEndian.PutUint16(out, uint16(v.Bits()))
	return append(out, v.Bytes()...)
}

// DecodeVector parses the output of EncodeVector and returns the remaining bytes.
func DecodeVector(b []byte) (bitvec.Vector, []byte, error) {
	if len(b) < 2 {
		return bitvec.Vector{}, nil, ErrInvalidVector
	}
	bits := int(binary.BigEndian.Uint16(b))
	if !bitvec.ValidLength(bits) || len(b)-2 < bits/8 {
		return bitvec.Vector{}, nil, fmt.Errorf("%w: %d bits in %d bytes", ErrInvalidVector, bits, len(b)-2)
	}
	v, err := bitvec.FromBytes(bits, b[2:2+bits/8])
	if err != nil {
		return bitvec.Vector{}, nil, err
	}
	return v, b[2+bits/8:], nil
}
