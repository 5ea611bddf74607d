// Command rulr is the reference CLI driver for the rulr Datalog engine
// (spec §6): it loads a named rule set, optionally a separate fact file,
// evaluates it to a fixpoint, and prints every tuple of the "error"
// relation, one per line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
