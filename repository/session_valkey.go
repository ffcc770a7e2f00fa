package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainSession "github.com/akbar-dignity/custom-whatsapp-chatb/domains/session"
	"github.com/akbar-dignity/custom-whatsapp-chatb/infrastructure/valkey"
)

// ValkeySessionStore keeps sessions in Valkey so multiple responder
// instances behind the same webhook share verification state.
type ValkeySessionStore struct {
	client *valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeySessionStore creates a Valkey-backed store. A zero TTL stores
// sessions without expiry.
func NewValkeySessionStore(client *valkey.Client, ttl time.Duration) *ValkeySessionStore {
	return &ValkeySessionStore{
		client: client,
		prefix: client.Key("session") + ":",
		ttl:    ttl,
	}
}

func (s *ValkeySessionStore) fullKey(sender string) string {
	return s.prefix + sender
}

func (s *ValkeySessionStore) GetOrCreate(ctx context.Context, sender string) (domainSession.Session, error) {
	inner := s.client.Inner()
	data, err := inner.Do(ctx, inner.B().Get().Key(s.fullKey(sender)).Build()).AsBytes()
	if err == nil {
		var sess domainSession.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return domainSession.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return sess, nil
	}
	if !valkey.IsNil(err) {
		return domainSession.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	now := time.Now().UTC()
	sess := domainSession.Session{
		Sender:    sender,
		State:     domainSession.StateNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Set(ctx, sender, sess); err != nil {
		return domainSession.Session{}, err
	}
	return sess, nil
}

func (s *ValkeySessionStore) Set(ctx context.Context, sender string, sess domainSession.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	inner := s.client.Inner()
	if s.ttl > 0 {
		cmd := inner.B().Set().Key(s.fullKey(sender)).Value(string(data)).Ex(s.ttl).Build()
		if err := inner.Do(ctx, cmd).Error(); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	}

	cmd := inner.B().Set().Key(s.fullKey(sender)).Value(string(data)).Build()
	if err := inner.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *ValkeySessionStore) Count(ctx context.Context) (int, error) {
	inner := s.client.Inner()
	keys, err := inner.Do(ctx, inner.B().Keys().Pattern(s.prefix+"*").Build()).AsStrSlice()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return len(keys), nil
}
