package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Khushv4/fireApp/internal/app"
)

func main() {
	// Local development keeps API keys in a .env; absence is fine in deploys.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Log.Info("Server listening", "port", a.Cfg.Port)
	if err := a.Run(); err != nil {
		a.Log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
