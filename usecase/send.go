package usecase

import (
	"context"
	"fmt"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	domainSend "github.com/akbar-dignity/custom-whatsapp-chatb/domains/send"
	"github.com/akbar-dignity/custom-whatsapp-chatb/integrations/whatsapp"
)

type sendService struct {
	client *whatsapp.CloudClient
}

func NewSendService(client *whatsapp.CloudClient) domainSend.ISendUsecase {
	return &sendService{client: client}
}

func (s *sendService) Send(ctx context.Context, destination string, action domainChat.Action) error {
	switch action.Kind {
	case domainChat.ActionText:
		return s.client.SendText(ctx, destination, action.Body)
	case domainChat.ActionButtons:
		return s.client.SendButtons(ctx, destination, action.Body, action.Buttons)
	default:
		return fmt.Errorf("unknown action kind: %s", action.Kind)
	}
}
