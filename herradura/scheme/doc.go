// Package scheme implements the Herradura protocol family on top of FSCX:
//
//   - HKEX, a two-party key exchange
//   - HSKE, symmetric encryption under a shared key
//   - HPKS, a signature-like construction over a public key tuple
//   - HPKE, public-key encryption over the same tuple
//   - entangled one-to-one encryption that reuses key exchange parameters
//
// Every construction is a short sequence of Revolve and XOR calls. Widths are
// split into a public diffusion count I = b/4 and a private diffusion count
// R = 3b/4. None of these constructions carries an integrity tag, and the
// signature is forgeable by anyone holding the public tuple; see the
// adversary package.
package scheme
