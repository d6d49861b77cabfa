package main

import (
	"github.com/joho/godotenv"

	"spendwell/cmd"
)

func main() {
	// Optional .env for SPENDWELL_DB and friends; absence is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
