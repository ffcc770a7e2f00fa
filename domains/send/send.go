package send

import (
	"context"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
)

type ISendUsecase interface {
	// Send performs the network call for one outbound action. A failure is
	// reported to the caller for logging but must never crash the request
	// handler that produced the action.
	Send(ctx context.Context, destination string, action domainChat.Action) error
}
