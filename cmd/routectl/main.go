package main

import (
	"fmt"
	"os"

	"github.com/Kilat-Pet-Delivery/service-route/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
