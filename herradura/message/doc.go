// Package message carries byte payloads through the fixed-width Herradura
// primitives.
//
// A payload is optionally LZ4-compressed, prefixed with its 8-byte length,
// zero-padded and cut into blocks of the parameter width. Each block is then
// encrypted with HSKE or HPKE. Reed-Solomon parity shards can be added over
// the encrypted blocks to survive lost blocks in transit.
package message
