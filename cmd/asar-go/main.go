package main

import (
	"fmt"
	"os"

	"github.com/Nivl/asar-go/internal/env"
)

func exitError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	root := newRootCmd(env.NewFromOs())
	if err := root.Execute(); err != nil {
		exitError(err)
	}
}
