package main

import (
	"bookly-api/core/logger"
	"bookly-api/core/server"
)

// @title Bookly API
// @version 1.0
// @description Scheduling backend: availability, event types, slot booking, payments and calendar sync.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
