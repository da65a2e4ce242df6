// Package main is the entry point for the coinly CLI application.
package main

import (
	"coinly/cli/cmd"
)

func main() {
	cmd.Execute()
}
