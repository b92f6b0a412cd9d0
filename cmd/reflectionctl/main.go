package main

import (
	"os"

	"github.com/holmberd/go-reflectionstore/cmd/reflectionctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
