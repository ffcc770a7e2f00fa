package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	domainLedger "github.com/akbar-dignity/custom-whatsapp-chatb/domains/ledger"
	domainRules "github.com/akbar-dignity/custom-whatsapp-chatb/domains/rules"
	domainSession "github.com/akbar-dignity/custom-whatsapp-chatb/domains/session"
	"github.com/akbar-dignity/custom-whatsapp-chatb/engine"
)

type fakeRuleSource struct {
	table *domainRules.Table
}

func (f *fakeRuleSource) Snapshot() *domainRules.Table { return f.table }

type fakeLedger struct {
	identity *domainLedger.Identity
}

func (f *fakeLedger) FindIdentity(ctx context.Context, claim string) (*domainLedger.Identity, error) {
	return f.identity, nil
}

func (f *fakeLedger) LatestBalance(ctx context.Context, identityKey string) (*domainLedger.Balance, error) {
	return nil, nil
}

func (f *fakeLedger) CreateAccount(ctx context.Context, request domainLedger.CreateAccountRequest) (domainLedger.Identity, error) {
	return domainLedger.Identity{}, nil
}

func (f *fakeLedger) AddBalance(ctx context.Context, request domainLedger.AddBalanceRequest) (domainLedger.Balance, error) {
	return domainLedger.Balance{}, nil
}

func (f *fakeLedger) ListAccounts(ctx context.Context) ([]domainLedger.Identity, error) {
	return nil, nil
}

type fakeSessionStore struct {
	sessions map[string]domainSession.Session
	setErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]domainSession.Session{}}
}

func (f *fakeSessionStore) GetOrCreate(ctx context.Context, sender string) (domainSession.Session, error) {
	if sess, ok := f.sessions[sender]; ok {
		return sess, nil
	}
	sess := domainSession.Session{Sender: sender, State: domainSession.StateNew}
	f.sessions[sender] = sess
	return sess, nil
}

func (f *fakeSessionStore) Set(ctx context.Context, sender string, sess domainSession.Session) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sessions[sender] = sess
	return nil
}

func (f *fakeSessionStore) Count(ctx context.Context) (int, error) {
	return len(f.sessions), nil
}

type transcriptTurn struct {
	direction domainChat.Direction
	text      string
}

type fakeConversations struct {
	turns []transcriptTurn
}

func (f *fakeConversations) Append(ctx context.Context, sender string, direction domainChat.Direction, text string) error {
	f.turns = append(f.turns, transcriptTurn{direction: direction, text: text})
	return nil
}

func (f *fakeConversations) History(ctx context.Context, sender string) ([]domainChat.ConversationEntry, error) {
	return nil, nil
}

func (f *fakeConversations) All(ctx context.Context) (map[string][]domainChat.ConversationEntry, error) {
	return nil, nil
}

type fakeSender struct {
	sent    []domainChat.Action
	sendErr error
}

func (f *fakeSender) Send(ctx context.Context, destination string, action domainChat.Action) error {
	f.sent = append(f.sent, action)
	return f.sendErr
}

func newChatFixture(ledger *fakeLedger) (domainChat.IChatUsecase, *fakeSessionStore, *fakeConversations, *fakeSender) {
	table := domainRules.Empty()
	table.Menu = domainRules.ButtonPage{
		Text:    "Main menu:",
		Buttons: []domainChat.Button{{ID: "btn_products", Title: "Products"}},
	}

	sessions := newFakeSessionStore()
	conversations := &fakeConversations{}
	sender := &fakeSender{}

	dispatchEngine := engine.New(&fakeRuleSource{table: table}, ledger)
	service := NewChatService(dispatchEngine, sessions, conversations, sender)
	return service, sessions, conversations, sender
}

func TestChatService_FirstContactFlow(t *testing.T) {
	service, sessions, conversations, sender := newChatFixture(&fakeLedger{})

	err := service.HandleInbound(context.Background(), domainChat.InboundEvent{
		Sender: "521111", Text: "hello",
	})
	require.NoError(t, err)

	// User turn plus the identity prompt, both in the transcript.
	require.Len(t, conversations.turns, 2)
	assert.Equal(t, domainChat.DirectionUser, conversations.turns[0].direction)
	assert.Equal(t, "hello", conversations.turns[0].text)
	assert.Equal(t, domainChat.DirectionBot, conversations.turns[1].direction)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, domainChat.ActionText, sender.sent[0].Kind)

	assert.Equal(t, domainSession.StateAwaitingIdentity, sessions.sessions["521111"].State)
}

func TestChatService_VerificationFlow(t *testing.T) {
	ledger := &fakeLedger{identity: &domainLedger.Identity{Key: "ACC-1", Name: "Acme"}}
	service, sessions, conversations, sender := newChatFixture(ledger)

	ctx := context.Background()
	require.NoError(t, service.HandleInbound(ctx, domainChat.InboundEvent{Sender: "521111", Text: "hi"}))
	require.NoError(t, service.HandleInbound(ctx, domainChat.InboundEvent{Sender: "521111", Text: "Acme"}))

	sess := sessions.sessions["521111"]
	assert.Equal(t, domainSession.StateVerified, sess.State)
	assert.Equal(t, "ACC-1", sess.IdentityKey)

	// Second turn sends confirmation text then the main menu.
	require.Len(t, sender.sent, 3)
	assert.Equal(t, domainChat.ActionText, sender.sent[1].Kind)
	assert.Contains(t, sender.sent[1].Body, "Acme")
	assert.Equal(t, domainChat.ActionButtons, sender.sent[2].Kind)

	// Every bot action lands in the transcript too.
	botTurns := 0
	for _, turn := range conversations.turns {
		if turn.direction == domainChat.DirectionBot {
			botTurns++
		}
	}
	assert.Equal(t, 3, botTurns)
}

func TestChatService_EmptySenderIsIgnored(t *testing.T) {
	service, sessions, conversations, sender := newChatFixture(&fakeLedger{})

	err := service.HandleInbound(context.Background(), domainChat.InboundEvent{Text: "hello"})
	require.NoError(t, err)

	assert.Empty(t, sessions.sessions)
	assert.Empty(t, conversations.turns)
	assert.Empty(t, sender.sent)
}

func TestChatService_SendFailureDoesNotFailDispatch(t *testing.T) {
	service, sessions, _, sender := newChatFixture(&fakeLedger{})
	sender.sendErr = errors.New("graph api down")

	err := service.HandleInbound(context.Background(), domainChat.InboundEvent{
		Sender: "521111", Text: "hello",
	})
	require.NoError(t, err)

	// The session transition still happened even though delivery failed.
	assert.Equal(t, domainSession.StateAwaitingIdentity, sessions.sessions["521111"].State)
}

func TestChatService_ButtonEventSkipsUserTranscript(t *testing.T) {
	service, _, conversations, _ := newChatFixture(&fakeLedger{})

	err := service.HandleInbound(context.Background(), domainChat.InboundEvent{
		Sender: "521111", ButtonID: "btn_ghost",
	})
	require.NoError(t, err)

	// Button taps carry no text, so only the bot reply is logged.
	require.Len(t, conversations.turns, 1)
	assert.Equal(t, domainChat.DirectionBot, conversations.turns[0].direction)
}
