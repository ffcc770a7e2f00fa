package rest

import (
	"github.com/gofiber/fiber/v2"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	"github.com/akbar-dignity/custom-whatsapp-chatb/pkg/utils"
)

type Conversation struct {
	Service domainChat.IConversationUsecase
}

func InitRestConversation(app fiber.Router, service domainChat.IConversationUsecase) Conversation {
	rest := Conversation{Service: service}
	app.Get("/conversations", rest.All)
	app.Get("/conversations/:sender", rest.History)

	return rest
}

func (handler *Conversation) All(c *fiber.Ctx) error {
	logs, err := handler.Service.All(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Conversation logs fetched",
		Results: logs,
	})
}

func (handler *Conversation) History(c *fiber.Ctx) error {
	sender := c.Params("sender")

	entries, err := handler.Service.History(c.UserContext(), sender)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Conversation history fetched",
		Results: map[string]any{
			"sender":  sender,
			"entries": entries,
		},
	})
}
