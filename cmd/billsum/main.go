package main

import (
	"os"

	"github.com/billsum/billsum/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
