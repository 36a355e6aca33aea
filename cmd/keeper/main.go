package main

import (
	"os"

	"friendskeeper/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr, os.Stdin))
}
