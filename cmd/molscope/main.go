// Command molscope is the command line interface.
package main

import (
	"github.com/joho/godotenv"

	"github.com/praxisip/molscope/internal/interfaces/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
