package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ruleSetModel stores the whole rules blob as a single row. Updates are
// full replaces, never merges, so one row is all we ever need.
type ruleSetModel struct {
	ID        uint      `gorm:"primaryKey"`
	Raw       string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ruleSetModel) TableName() string {
	return "rule_sets"
}

type RulesGormRepository struct {
	db *gorm.DB
}

func NewRulesGormRepository(db *gorm.DB) *RulesGormRepository {
	return &RulesGormRepository{db: db}
}

func (r *RulesGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&ruleSetModel{})
}

// Get returns the stored blob, or (nil, nil) when no rules were ever saved.
func (r *RulesGormRepository) Get(ctx context.Context) ([]byte, error) {
	var m ruleSetModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return []byte(m.Raw), nil
}

// Replace persists a whole new blob, superseding any previous one.
func (r *RulesGormRepository) Replace(ctx context.Context, raw []byte) error {
	m := ruleSetModel{ID: 1, Raw: string(raw), UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Save(&m).Error
}
