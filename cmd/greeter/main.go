// Command greeter greets people using the container bootstrap.
//
// The greeter and locale packages register themselves from init; importing
// them is all it takes for their registrars to be discovered.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
