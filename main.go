package main

import (
	"github.com/joho/godotenv"

	"github.com/clawkeep/clawkeep/cmd/clawkeep"
)

func main() {
	_ = godotenv.Load()
	clawkeep.Execute()
}
