package main

import (
	"os"

	"github.com/raveheart1/semversioner/internal/cli"
)

func main() {
	err := cli.Execute()
	os.Exit(cli.ExitCode(err))
}
