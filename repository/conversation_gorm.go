package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
)

type conversationModel struct {
	ID        string    `gorm:"primaryKey"`
	Sender    string    `gorm:"index:idx_conversations_sender;not null"`
	Direction string    `gorm:"not null"`
	Text      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index:idx_conversations_created;not null"`
}

func (conversationModel) TableName() string {
	return "conversations"
}

// ConversationGormRepository is the append-only transcript store. Entries
// are never updated or deleted; growth is bounded only by the database.
type ConversationGormRepository struct {
	db *gorm.DB
}

func NewConversationGormRepository(db *gorm.DB) *ConversationGormRepository {
	return &ConversationGormRepository{db: db}
}

func (r *ConversationGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&conversationModel{})
}

func (r *ConversationGormRepository) Append(ctx context.Context, sender string, direction domainChat.Direction, text string) error {
	m := conversationModel{
		ID:        uuid.New().String(),
		Sender:    sender,
		Direction: string(direction),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *ConversationGormRepository) History(ctx context.Context, sender string) ([]domainChat.ConversationEntry, error) {
	var models []conversationModel
	err := r.db.WithContext(ctx).
		Where("sender = ?", sender).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domainChat.ConversationEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, fromConversationModel(m))
	}
	return entries, nil
}

func (r *ConversationGormRepository) All(ctx context.Context) (map[string][]domainChat.ConversationEntry, error) {
	var models []conversationModel
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&models).Error; err != nil {
		return nil, err
	}

	result := make(map[string][]domainChat.ConversationEntry)
	for _, m := range models {
		result[m.Sender] = append(result[m.Sender], fromConversationModel(m))
	}
	return result, nil
}

func fromConversationModel(m conversationModel) domainChat.ConversationEntry {
	return domainChat.ConversationEntry{
		ID:        m.ID,
		Sender:    m.Sender,
		Direction: domainChat.Direction(m.Direction),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}
