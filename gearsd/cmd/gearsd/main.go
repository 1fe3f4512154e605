package main

import (
	"fmt"
	"os"

	"github.com/gears-network/gears/gearsd/cmd/gearsd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
