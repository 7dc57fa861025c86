// main is the entry point for the chartpress CLI.
package main

import (
	"github.com/chartpress/chartpress/cmd"
	"github.com/chartpress/chartpress/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
