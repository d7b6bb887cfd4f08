package main

import (
	"fmt"

	"github.com/mazeincoding/twiggy/internal/cli"
	"github.com/mazeincoding/twiggy/internal/utils"
)

// main is the entry point for the twiggy command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal("application execution failed: " + applicationExecutionError.Error())
	}
}
