package handlers

import (
	"qrisgate/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

func HealthCheck(c *fiber.Ctx) error {
	dbState := "connected"
	if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbState = "unavailable"
	}

	redisState := "connected"
	if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
		redisState = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"database": dbState,
			"redis":    redisState,
		},
	})
}
