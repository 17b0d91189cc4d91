package main

import (
	"fmt"
	"os"
)

func main() {
	app := CLI()
	app.ExitErrHandler = nil
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "herradura: %v\n", err)
		os.Exit(1)
	}
}
