package main

import (
	"os"

	"github.com/simonhull/firebird-suite/wren/internal/commands"
	"github.com/simonhull/firebird-suite/wren/output"
)

func main() {
	if err := commands.Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
