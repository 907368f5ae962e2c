// Command kgfctl runs maintenance tasks against the order database.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	root := newRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
