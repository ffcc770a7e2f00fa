package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
)

const (
	defaultTimeout = 15 * time.Second

	// The Cloud API rejects interactive messages with more than 3 reply
	// buttons, so anything longer is cut down before the call.
	maxButtons = 3
)

// CloudClient talks to the WhatsApp Cloud (Graph) API messages endpoint.
type CloudClient struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	http          *http.Client
}

func NewCloudClient(baseURL, accessToken, phoneNumberID string, timeout time.Duration) *CloudClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CloudClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		http:          &http.Client{Timeout: timeout},
	}
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type interactivePayload struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Interactive      interactive `json:"interactive"`
}

type interactive struct {
	Type   string            `json:"type"`
	Body   textBody          `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveAction struct {
	Buttons []replyButton `json:"buttons"`
}

type replyButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SendText delivers a plain text reply.
func (c *CloudClient) SendText(ctx context.Context, to, body string) error {
	return c.post(ctx, textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Text:             textBody{Body: body},
	})
}

// SendButtons delivers an interactive reply-button message. Empty button
// lists are a no-op; longer lists keep only the first three entries.
func (c *CloudClient) SendButtons(ctx context.Context, to, body string, buttons []domainChat.Button) error {
	if len(buttons) == 0 {
		return nil
	}
	if len(buttons) > maxButtons {
		buttons = buttons[:maxButtons]
	}

	replies := make([]replyButton, 0, len(buttons))
	for _, b := range buttons {
		replies = append(replies, replyButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		})
	}

	return c.post(ctx, interactivePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: interactive{
			Type:   "button",
			Body:   textBody{Body: body},
			Action: interactiveAction{Buttons: replies},
		},
	})
}

func (c *CloudClient) post(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("graph api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
