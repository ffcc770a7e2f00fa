package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akbar-dignity/custom-whatsapp-chatb/repository"
)

func newTestRulesRepo(t *testing.T) *repository.RulesGormRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "rules.db")
	db, err := gorm.Open(sqlite.Open("file:"+dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := repository.NewRulesGormRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func TestRulesService_SeedsFromFileWhenStoreEmpty(t *testing.T) {
	repo := newTestRulesRepo(t)

	seedPath := filepath.Join(t.TempDir(), "rules.json")
	seed := []byte(`{"menu": {"text": "Seeded", "buttons": [{"id": "btn_a", "title": "A"}]}}`)
	require.NoError(t, os.WriteFile(seedPath, seed, 0o644))

	service := NewRulesService(repo, seedPath)

	assert.Equal(t, "Seeded", service.Snapshot().Menu.Text)
	assert.JSONEq(t, string(seed), string(service.Raw()))

	// The seed was persisted: a fresh service sees it without the file.
	again := NewRulesService(repo, "")
	assert.Equal(t, "Seeded", again.Snapshot().Menu.Text)
}

func TestRulesService_MissingSeedStartsEmpty(t *testing.T) {
	repo := newTestRulesRepo(t)

	service := NewRulesService(repo, filepath.Join(t.TempDir(), "does-not-exist.json"))

	assert.Empty(t, service.Snapshot().Menu.Buttons)
	assert.Empty(t, service.Raw())
}

func TestRulesService_ReplaceSwapsAndPersists(t *testing.T) {
	repo := newTestRulesRepo(t)
	service := NewRulesService(repo, "")

	before := service.Snapshot()

	updated := []byte(`{"menu": {"text": "Updated", "buttons": []}, "products": {"p1": "one"}}`)
	require.NoError(t, service.Replace(updated))

	assert.Equal(t, "Updated", service.Snapshot().Menu.Text)
	assert.Equal(t, "one", service.Snapshot().Products["p1"])

	// The old snapshot is untouched, so a dispatch in flight is unaffected.
	assert.Empty(t, before.Menu.Text)

	again := NewRulesService(repo, "")
	assert.Equal(t, "Updated", again.Snapshot().Menu.Text)
}

func TestRulesService_ReplaceRejectsNonObject(t *testing.T) {
	repo := newTestRulesRepo(t)
	service := NewRulesService(repo, "")

	err := service.Replace([]byte(`["not", "an", "object"]`))
	require.Error(t, err)

	// Nothing was persisted.
	again := NewRulesService(repo, "")
	assert.Empty(t, again.Raw())
}
