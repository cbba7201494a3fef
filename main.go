package main

import (
	"os"

	"github.com/fabricstock/fabricstock/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
