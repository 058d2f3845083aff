package main

import (
	"log"

	"github.com/MrSnakeDoc/harunode/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		log.Fatalf("❌ harunode: %v", err)
	}
}
