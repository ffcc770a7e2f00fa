package rest

import (
	"github.com/gofiber/fiber/v2"

	domainHealth "github.com/akbar-dignity/custom-whatsapp-chatb/domains/health"
	"github.com/akbar-dignity/custom-whatsapp-chatb/pkg/utils"
)

type Health struct {
	Service domainHealth.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service domainHealth.IHealthUsecase) Health {
	rest := Health{Service: service}
	app.Get("/health", rest.Check)

	return rest
}

func (handler *Health) Check(c *fiber.Ctx) error {
	status := handler.Service.Check(c.UserContext())

	code := "SUCCESS"
	httpStatus := 200
	if status.Database != "ok" {
		code = "DEGRADED"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(utils.ResponseData{
		Status:  httpStatus,
		Code:    code,
		Message: "Health checked",
		Results: status,
	})
}
