package main

import (
	"fmt"
	"os"

	"github.com/kirillkom/nlp-text-server/internal/adapters/cli"
)

func main() {
	if err := cli.NewClientCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
