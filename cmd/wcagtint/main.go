// Package main is the entry point for wcagtint.
package main

import "github.com/jmylchreest/wcagtint/internal/cli"

func main() {
	cli.Execute()
}
