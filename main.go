package main

import (
	"github.com/joho/godotenv"

	"github.com/KaramelBytes/voltrack-cli/cmd"
)

func main() {
	// optional: VOLTRACK_* settings may live in a local .env
	_ = godotenv.Load()
	cmd.Execute()
}
