// Package ratchet advances a symmetric chain key after every message so that
// a leaked chain key does not expose earlier traffic. Each direction of a
// channel uses its own chain.
package ratchet
