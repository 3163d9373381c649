package main

import (
	"log"

	"github.com/agromw/missiond/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
