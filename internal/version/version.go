// Package version provides version information for the linefeed tools.
package version

import (
	"fmt"
	"os"
)

const (
	// Name of the project.
	Name string = "linefeed"
	// Version of the project.
	Version string = "0.1.0-develop"
)

// String returns a plain text representation of the version information.
func String() string {
	return fmt.Sprintf("%s %s", Name, Version)
}

// Print the version.
func Print() {
	fmt.Println(String())
}

// PrintAndExit prints the program version and exits.
func PrintAndExit() {
	Print()
	os.Exit(0)
}
