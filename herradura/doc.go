// Package herradura implements the Herradura cryptographic suite built on the
// FSCX mixing function and carries it over QUIC.
//
// The sub-packages are layered:
//
//   - bitvec: fixed-width bit vectors and random generation
//   - fscx: the FSCX transform and its iterated form, Revolve
//   - scheme: HKEX, HSKE, HPKS, HPKE and entangled encryption
//   - adversary: experiments run from public artifacts only
//   - crypto, wire, session, transport/quic: an HKEX-keyed channel over QUIC
//   - message, selftest, metrics, log: payload framing and tooling
//
// Peer ties the transport and session layers together.
package herradura
