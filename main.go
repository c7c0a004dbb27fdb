package main

import (
	"log"

	"github.com/hiringtools/cv-intake/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
