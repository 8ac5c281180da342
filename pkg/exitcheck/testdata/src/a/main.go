package main

import (
	"os"
	sys "os"
)

// A
type A struct{}

// Exit
func (a A) Exit() {}

// Exit
func Exit() {}

func main() {
	os.Exit(1)  // want "os.Exit call"
	sys.Exit(2) // want "os.Exit call"
	Exit()
	a := A{}
	a.Exit()
	defer func() {
		os.Exit(3)
	}()
}

func run() {
	os.Exit(1)
}
