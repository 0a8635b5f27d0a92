// Command rpncalc evaluates Reverse Polish Notation expressions.
package main

import (
	"os"

	"github.com/roach88/rpncalc/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	os.Exit(cli.Report(os.Stderr, err))
}
