// Package crypto turns an HKEX shared vector into transport keys.
//
// The Herradura protocols carry no integrity of their own, so traffic between
// two parties is sealed with ChaCha20-Poly1305 under keys derived with
// HKDF-SHA256 from the shared vector and both commitments. A key-confirmation
// tag detects a tampered commitment before any data is exchanged.
package crypto
