// nbcheck gates a Nebula change: static check, tests, then grammar samples
package main

import (
	"os"

	"github.com/nebula-lang/nbcheck/cmd/nbcheck/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
