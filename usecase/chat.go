package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	domainSend "github.com/akbar-dignity/custom-whatsapp-chatb/domains/send"
	domainSession "github.com/akbar-dignity/custom-whatsapp-chatb/domains/session"
	"github.com/akbar-dignity/custom-whatsapp-chatb/engine"
)

type chatService struct {
	engine        *engine.Engine
	sessions      domainSession.ISessionStore
	conversations domainChat.IConversationUsecase
	sender        domainSend.ISendUsecase
}

func NewChatService(
	dispatchEngine *engine.Engine,
	sessions domainSession.ISessionStore,
	conversations domainChat.IConversationUsecase,
	sender domainSend.ISendUsecase,
) domainChat.IChatUsecase {
	return &chatService{
		engine:        dispatchEngine,
		sessions:      sessions,
		conversations: conversations,
		sender:        sender,
	}
}

// HandleInbound runs one event through the dispatch engine. Lookup misses
// and collaborator failures surface as reply texts from the engine itself;
// transcript or transport failures are logged and swallowed so the webhook
// is always acknowledged.
func (s *chatService) HandleInbound(ctx context.Context, event domainChat.InboundEvent) error {
	if event.Sender == "" {
		return nil
	}

	log := logrus.WithField("sender", event.Sender)

	if event.Text != "" {
		if err := s.conversations.Append(ctx, event.Sender, domainChat.DirectionUser, event.Text); err != nil {
			log.WithError(err).Error("[CHAT] failed to append user turn")
		}
	}

	sess, err := s.sessions.GetOrCreate(ctx, event.Sender)
	if err != nil {
		log.WithError(err).Error("[CHAT] failed to load session")
		return err
	}

	newSess, actions := s.engine.Decide(ctx, event, sess)

	if err := s.sessions.Set(ctx, event.Sender, newSess); err != nil {
		log.WithError(err).Error("[CHAT] failed to persist session")
	}

	for _, action := range actions {
		if err := s.conversations.Append(ctx, event.Sender, domainChat.DirectionBot, action.Body); err != nil {
			log.WithError(err).Error("[CHAT] failed to append bot turn")
		}
		if err := s.sender.Send(ctx, event.Sender, action); err != nil {
			log.WithError(err).Error("[CHAT] outbound send failed")
		}
	}
	return nil
}
