package main

import (
	"os"

	"github.com/qcutools/qcubench/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
