package main

import (
	"log"

	"github.com/mithrel/ideaval/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
