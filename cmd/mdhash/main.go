package main

import (
	"os"

	"massnet.org/mdhash/cmd/mdhash/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
