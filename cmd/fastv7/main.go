// Command fastv7 generates and inspects UUID v7 identifiers.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
