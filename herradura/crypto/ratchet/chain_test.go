package ratchet

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}
	return key
}

func TestChainRoundTrip(t *testing.T) {
	sender, err := NewChain(testKey())
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	receiver, err := NewReceiver(testKey(), 16)
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}

	for i, m := range []string{"first", "second", "third"} {
		em, err := sender.Seal([]byte(m), []byte("ad"))
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		if em.Generation != uint64(i) {
			t.Fatalf("generation = %d, want %d", em.Generation, i)
		}
		decoded, err := DecodeEncryptedMessage(em.Encode())
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		pt, err := receiver.Open(decoded, []byte("ad"))
		if err != nil {
			t.Fatalf("Open %d: %v", i, err)
		}
		if string(pt) != m {
			t.Fatalf("message %d = %q", i, pt)
		}
	}
	if sender.Generation() != 3 {
		t.Fatalf("sender generation = %d", sender.Generation())
	}
}

func TestChainOutOfOrder(t *testing.T) {
	sender, _ := NewChain(testKey())
	receiver, _ := NewReceiver(testKey(), 4)

	var msgs []EncryptedMessage
	for i := 0; i < 4; i++ {
		em, err := sender.Seal([]byte{byte(i)}, nil)
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		msgs = append(msgs, em)
	}

	for _, i := range []int{2, 0, 3, 1} {
		pt, err := receiver.Open(msgs[i], nil)
		if err != nil {
			t.Fatalf("Open %d: %v", i, err)
		}
		if !bytes.Equal(pt, []byte{byte(i)}) {
			t.Fatalf("message %d mismatch", i)
		}
	}

	// Replays are rejected.
	if _, err := receiver.Open(msgs[1], nil); err != ErrInvalidGeneration {
		t.Fatalf("replay: got %v", err)
	}
}

func TestReceiverRejectsTooFarAhead(t *testing.T) {
	sender, _ := NewChain(testKey())
	receiver, _ := NewReceiver(testKey(), 1)
	var last EncryptedMessage
	for i := 0; i < 3; i++ {
		last, _ = sender.Seal([]byte("x"), nil)
	}
	if _, err := receiver.Open(last, nil); err != ErrInvalidGeneration {
		t.Fatalf("got %v, want ErrInvalidGeneration", err)
	}
}

func TestTamperedMessageDoesNotAdvance(t *testing.T) {
	sender, _ := NewChain(testKey())
	receiver, _ := NewReceiver(testKey(), 8)
	em, _ := sender.Seal([]byte("payload"), nil)

	bad := EncryptedMessage{Generation: em.Generation, Ciphertext: append([]byte(nil), em.Ciphertext...)}
	bad.Ciphertext[0] ^= 1
	if _, err := receiver.Open(bad, nil); err != ErrDecryptionFailed {
		t.Fatalf("tampered: got %v", err)
	}
	if _, err := receiver.Open(em, nil); err != nil {
		t.Fatalf("genuine after tamper: %v", err)
	}
}

func TestInvalidKey(t *testing.T) {
	if _, err := NewChain(make([]byte, 16)); err != ErrInvalidKey {
		t.Fatalf("NewChain: got %v", err)
	}
	if _, err := DecodeEncryptedMessage([]byte{1, 2}); err != ErrShortMessage {
		t.Fatalf("Decode: got %v", err)
	}
}
