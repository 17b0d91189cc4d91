// Package adversary replays the Herradura protocols from the viewpoint of an
// observer that holds only public artifacts.
//
// Every experiment rebuilds the verifier-side quantity
//
//	V = Revolve(C, B2, R) xor A2
//
// from the published key tuple and XOR-combines it with attacker-chosen values.
// The outcomes are data, not errors: a forgery that verifies is the documented
// behaviour of the scheme and is reported as Outcome.Succeeded.
package adversary
