package usecase

import (
	"context"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	"github.com/akbar-dignity/custom-whatsapp-chatb/repository"
)

type conversationService struct {
	repo *repository.ConversationGormRepository
}

func NewConversationService(repo *repository.ConversationGormRepository) domainChat.IConversationUsecase {
	return &conversationService{repo: repo}
}

func (s *conversationService) Append(ctx context.Context, sender string, direction domainChat.Direction, text string) error {
	return s.repo.Append(ctx, sender, direction, text)
}

func (s *conversationService) History(ctx context.Context, sender string) ([]domainChat.ConversationEntry, error) {
	return s.repo.History(ctx, sender)
}

func (s *conversationService) All(ctx context.Context) (map[string][]domainChat.ConversationEntry, error) {
	return s.repo.All(ctx)
}
