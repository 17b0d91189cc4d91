package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	frames := []Frame{
		{Type: MessageTypeConfirm, Payload: []byte("tag")},
		{Type: MessageTypeClose},
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	// Consecutive frames on one stream must not swallow each other.
	for _, in := range frames {
		out, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if out.Type != in.Type || !bytes.Equal(out.Payload, in.Payload) {
			t.Fatalf("got %v %q, want %v %q", out.Type, out.Payload, in.Type, in.Payload)
		}
	}
}

func TestFrameErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Type: 0}); err != ErrInvalidType {
		t.Fatalf("type 0: got %v", err)
	}
	if err := WriteFrame(&buf, Frame{Type: MessageTypeData, Payload: make([]byte, MaxFramePayload+1)}); err != ErrFrameTooLarge {
		t.Fatalf("oversize: got %v", err)
	}
	if _, err := ReadFrame(bytes.NewReader([]byte{9, 0, 0, 0, 0})); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("unknown type: got %v", err)
	}
	if _, err := ReadFrame(bytes.NewReader([]byte{3, 0xff, 0xff, 0xff, 0xff})); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("oversize header: got %v", err)
	}

	_ = WriteFrame(&buf, Frame{Type: MessageTypeData})
	if _, err := ReadFrameOf(&buf, MessageTypeHello); !errors.Is(err, ErrUnexpectedType) {
		t.Fatalf("ReadFrameOf: got %v", err)
	}
}

func TestVectorEncoding(t *testing.T) {
	v := bitvec.MustFromUint64(32, 0xcafebabe)
	w := bitvec.MustFromUint64(8, 0x42)
	b := append(EncodeVector(v), EncodeVector(w)...)

	got, rest, err := DecodeVector(b)
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if !got.Equal(v) {
		t.Fatalf("got %s want %s", got, v)
	}
	got, rest, err = DecodeVector(rest)
	if err != nil || !got.Equal(w) || len(rest) != 0 {
		t.Fatalf("second vector: %s %d %v", got, len(rest), err)
	}

	if _, _, err := DecodeVector([]byte{0, 32, 1}); !errors.Is(err, ErrInvalidVector) {
		t.Fatalf("truncated: got %v", err)
	}
	if _, _, err := DecodeVector([]byte{0, 7, 1}); !errors.Is(err, ErrInvalidVector) {
		t.Fatalf("bad width: got %v", err)
	}
}

func TestHelloRoundTrip(t *testing.T) {
	c := bitvec.MustFromUint64(64, 0x0123456789abcdef)
	h := NewHello(c)
	enc, err := EncodeHello(h)
	if err != nil {
		t.Fatalf("EncodeHello: %v", err)
	}
	dec, err := DecodeHello(enc)
	if err != nil {
		t.Fatalf("DecodeHello: %v", err)
	}
	if dec.SessionID != h.SessionID || !dec.Commitment.Equal(c) || dec.Bits != 64 {
		t.Fatalf("decoded %+v", dec)
	}

	reply := h.Reply(bitvec.MustFromUint64(64, 7))
	if reply.SessionID != h.SessionID {
		t.Fatalf("reply changed session id")
	}

	bad := h
	bad.Bits = 32
	enc, _ = EncodeHello(bad)
	if _, err := DecodeHello(enc); !errors.Is(err, ErrHelloCommitment) {
		t.Fatalf("width mismatch: got %v", err)
	}
	bad = h
	bad.Version = 9
	enc, _ = EncodeHello(bad)
	if _, err := DecodeHello(enc); !errors.Is(err, ErrHelloVersion) {
		t.Fatalf("version: got %v", err)
	}

	enc, _ = EncodeHello(h)
	if _, err := DecodeHello(enc[:10]); !errors.Is(err, ErrHelloLength) {
		t.Fatalf("short header: got %v", err)
	}
	if _, err := DecodeHello(enc[:len(enc)-1]); !errors.Is(err, ErrInvalidVector) {
		t.Fatalf("truncated commitment: got %v", err)
	}
	if _, err := DecodeHello(append(enc, 0)); !errors.Is(err, ErrHelloLength) {
		t.Fatalf("trailing byte: got %v", err)
	}
}

func TestHelloLayout(t *testing.T) {
	c := bitvec.MustFromUint64(16, 0xbeef)
	h := NewHello(c)
	enc, err := EncodeHello(h)
	if err != nil {
		t.Fatalf("EncodeHello: %v", err)
	}
	// The commitment travels in vector form after the fixed header.
	if !bytes.Equal(enc[helloHeaderSize:], EncodeVector(c)) {
		t.Fatalf("commitment bytes %x", enc[helloHeaderSize:])
	}
	if enc[0] != ProtocolVersion || !bytes.Equal(enc[1:17], h.SessionID[:]) {
		t.Fatalf("header %x", enc[:helloHeaderSize])
	}
}
