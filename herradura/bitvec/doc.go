// Package bitvec provides the fixed-width bit vectors every Herradura primitive
// operates on.
//
// A Vector is an immutable value: XOR and rotations always return a new
// Vector and never touch their receiver or arguments. Widths are positive
// multiples of 8 bits and the bit pattern is stored big-endian, so the
// hexadecimal rendering of a Vector reads like the number it encodes.
package bitvec
