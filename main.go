package main

import (
	"os"
	"pwmeter/cmd/pwmeter"
	"pwmeter/internal/cli"
)

func main() {
	if err := pwmeter.Command.Execute(); err != nil {
		cli.PrintBoxedErrorMessage(err.Error())
		os.Exit(1)
	}
}
