package controller

import (
	"contract-review-fe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	reviewService service.IReviewService
}

func NewHealthController(reviewService service.IReviewService) IHealthController {
	return &healthController{
		reviewService: reviewService,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

// Health reports this service and the analysis backend behind it. A dead
// backend does not fail the probe; it shows up in the payload instead.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.reviewService.Health(ctx.Context()))
}
