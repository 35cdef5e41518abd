//go:build windows

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "the vtgrid demo needs a Unix pty; the engine itself is portable")
	os.Exit(1)
}
