package chat

import (
	"context"
	"time"
)

// maxReplyButtons is the hard limit the WhatsApp Cloud API imposes on
// interactive reply buttons. Longer lists are silently truncated.
const maxReplyButtons = 3

// InboundEvent is a webhook message already normalized by the transport
// layer. Exactly one of Text / ButtonID is meaningfully populated, though a
// text event may still carry an empty string.
type InboundEvent struct {
	Sender   string `json:"sender"`
	Text     string `json:"text,omitempty"`
	ButtonID string `json:"button_id,omitempty"`
}

// Button is a single selectable option inside an interactive menu.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ActionKind string

const (
	ActionText    ActionKind = "text"
	ActionButtons ActionKind = "buttons"
)

// Action is an outbound reply produced by the dispatch engine and consumed
// by the outbound sender.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Body    string     `json:"body"`
	Buttons []Button   `json:"buttons,omitempty"`
}

// NewTextAction builds a plain text reply.
func NewTextAction(body string) Action {
	return Action{Kind: ActionText, Body: body}
}

// NewButtonsAction builds an interactive button menu. Lists longer than the
// platform limit keep only their first three entries, in original order.
func NewButtonsAction(body string, buttons []Button) Action {
	if len(buttons) > maxReplyButtons {
		buttons = buttons[:maxReplyButtons]
	}
	out := make([]Button, len(buttons))
	copy(out, buttons)
	return Action{Kind: ActionButtons, Body: body, Buttons: out}
}

type Direction string

const (
	DirectionUser Direction = "user"
	DirectionBot  Direction = "bot"
)

// ConversationEntry is one turn of the per-sender transcript. The log is
// append-only and used for admin viewing, never for dispatch decisions.
type ConversationEntry struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Direction Direction `json:"from"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type IChatUsecase interface {
	// HandleInbound runs one inbound event through the dispatch engine,
	// persists the resulting session state and sends the produced actions
	// in order. It never fails the enclosing webhook request.
	HandleInbound(ctx context.Context, event InboundEvent) error
}

type IConversationUsecase interface {
	Append(ctx context.Context, sender string, direction Direction, text string) error
	History(ctx context.Context, sender string) ([]ConversationEntry, error)
	All(ctx context.Context) (map[string][]ConversationEntry, error)
}
