package rest

import (
	"github.com/gofiber/fiber/v2"

	domainRules "github.com/akbar-dignity/custom-whatsapp-chatb/domains/rules"
	"github.com/akbar-dignity/custom-whatsapp-chatb/pkg/utils"
	"github.com/akbar-dignity/custom-whatsapp-chatb/validations"
)

type Rules struct {
	Service domainRules.IRulesUsecase
}

func InitRestRules(app fiber.Router, service domainRules.IRulesUsecase) Rules {
	rest := Rules{Service: service}
	app.Get("/rules", rest.Get)
	app.Post("/update-rules", rest.Update)

	return rest
}

func (handler *Rules) Get(c *fiber.Ctx) error {
	raw := handler.Service.Raw()
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// Update replaces the whole rules table. There are no partial updates: the
// posted body supersedes everything previously stored.
func (handler *Rules) Update(c *fiber.Ctx) error {
	raw := make([]byte, len(c.Body()))
	copy(raw, c.Body())

	err := validations.ValidateReplaceRules(c.UserContext(), raw)
	utils.PanicIfNeeded(err)

	err = handler.Service.Replace(raw)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Rules updated successfully",
		Results: map[string]any{
			"size_bytes": len(raw),
		},
	})
}
