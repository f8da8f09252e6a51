package main

import (
	"log"

	"github.com/MrSnakeDoc/linkbot/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkbot failed to start: %v", err)
	}
}
