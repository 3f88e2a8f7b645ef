package main

import (
	"os"
	"pwmeter/cmd/docsgen/docsgen"
	"pwmeter/internal/cli"
)

func main() {
	if err := docsgen.Command.Execute(); err != nil {
		cli.PrintBoxedErrorMessage(err.Error())
		os.Exit(1)
	}
}
