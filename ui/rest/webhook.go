package rest

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	"github.com/akbar-dignity/custom-whatsapp-chatb/pkg/msgworker"
)

// Webhook exposes the messaging-platform callback endpoints. The POST
// handler always acknowledges with 200 so the platform never enters a
// redelivery storm, even when the payload carries no message.
type Webhook struct {
	Service     domainChat.IChatUsecase
	VerifyToken string
	Pool        *msgworker.Pool
}

func InitRestWebhook(app fiber.Router, service domainChat.IChatUsecase, verifyToken string, pool *msgworker.Pool) Webhook {
	rest := Webhook{Service: service, VerifyToken: verifyToken, Pool: pool}
	app.Get("/webhook", rest.Verify)
	app.Post("/webhook", rest.Receive)

	return rest
}

// Verify answers the platform's subscription handshake: echo the challenge
// when the shared secret matches, reject otherwise.
func (handler *Webhook) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == handler.VerifyToken {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// graphWebhookPayload mirrors the slice of the Cloud API notification we
// care about. Everything else in the payload is ignored.
type graphWebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []graphMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type graphMessage struct {
	From string `json:"from"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Button *struct {
		Payload string `json:"payload"`
	} `json:"button"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply struct {
			ID string `json:"id"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// Receive normalizes the webhook payload and hands the event to the
// dispatch flow. Events are sharded per sender through the worker pool so
// one sender's turns never interleave; without a pool the handler processes
// the event inline.
func (handler *Webhook) Receive(c *fiber.Ctx) error {
	var payload graphWebhookPayload
	if err := c.BodyParser(&payload); err != nil || payload.Object == "" {
		// Malformed payloads are skipped silently but still acknowledged.
		return c.SendStatus(fiber.StatusOK)
	}

	event, ok := normalizeEvent(payload)
	if !ok {
		return c.SendStatus(fiber.StatusOK)
	}

	if handler.Pool != nil {
		handler.Pool.TryDispatch(msgworker.Job{
			Sender: event.Sender,
			Handler: func(ctx context.Context) error {
				return handler.Service.HandleInbound(ctx, event)
			},
		})
		return c.SendStatus(fiber.StatusOK)
	}

	if err := handler.Service.HandleInbound(c.UserContext(), event); err != nil {
		logrus.WithError(err).Error("[WEBHOOK] dispatch failed")
	}
	return c.SendStatus(fiber.StatusOK)
}

func normalizeEvent(payload graphWebhookPayload) (domainChat.InboundEvent, bool) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return domainChat.InboundEvent{}, false
	}
	messages := payload.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return domainChat.InboundEvent{}, false
	}

	msg := messages[0]
	if msg.From == "" {
		return domainChat.InboundEvent{}, false
	}

	event := domainChat.InboundEvent{Sender: msg.From}
	if msg.Text != nil {
		event.Text = strings.TrimSpace(msg.Text.Body)
	}
	if msg.Button != nil && msg.Button.Payload != "" {
		event.ButtonID = msg.Button.Payload
	} else if msg.Interactive != nil && msg.Interactive.Type == "button_reply" {
		event.ButtonID = msg.Interactive.ButtonReply.ID
	}
	return event, true
}
