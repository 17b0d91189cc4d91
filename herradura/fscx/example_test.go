package fscx_test

import (
	"fmt"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
)

func ExampleFSCX() {
	a := bitvec.MustFromUint64(8, 0x01)
	b := bitvec.MustFromUint64(8, 0x02)

	out, _ := fscx.FSCX(a, b)
	fmt.Println(out, a, b)
	// Output: 84 01 02
}

func ExampleTrace() {
	a := bitvec.MustFromUint64(8, 0x01)
	b := bitvec.MustFromUint64(8, 0x02)

	seq, _ := fscx.Trace(a, b, 2)
	for step, v := range seq {
		fmt.Printf("Step %d: %s\n", step, v)
	}
	// Output:
	// Step 1: 84
	// Step 2: c8
}
