package main

import (
	"os"

	"github.com/teranos/contractgen/cmd/contractgen/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
