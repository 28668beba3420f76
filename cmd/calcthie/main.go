package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)
}
