package main

import (
	"log"
	"os"
	_ "time/tzdata"

	"github.com/KazanKK/localdump/cmd"
)

func main() {
	if err := cmd.App().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
