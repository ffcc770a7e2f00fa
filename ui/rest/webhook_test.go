package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
)

// fakeChatService records the events it receives.
type fakeChatService struct {
	events []domainChat.InboundEvent
}

func (f *fakeChatService) HandleInbound(ctx context.Context, event domainChat.InboundEvent) error {
	f.events = append(f.events, event)
	return nil
}

func newWebhookApp(service domainChat.IChatUsecase) *fiber.App {
	app := fiber.New()
	// Nil pool: the handler processes events inline, which keeps the tests
	// deterministic.
	InitRestWebhook(app, service, "secret-token", nil)
	return app
}

func TestWebhookVerify_Handshake(t *testing.T) {
	app := newWebhookApp(&fakeChatService{})

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=challenge-42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "challenge-42" {
		t.Fatalf("expected challenge echo, got %q", string(body))
	}
}

func TestWebhookVerify_RejectsBadToken(t *testing.T) {
	app := newWebhookApp(&fakeChatService{})

	cases := []string{
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=c",
		"/webhook?hub.mode=unsubscribe&hub.verify_token=secret-token&hub.challenge=c",
		"/webhook",
	}
	for _, url := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test(%s) error: %v", url, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", url, resp.StatusCode)
		}
	}
}

func TestWebhookReceive_TextMessage(t *testing.T) {
	service := &fakeChatService{}
	app := newWebhookApp(service)

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{"changes": [{"value": {"messages": [
			{"from": "521111", "text": {"body": "  hello  "}}
		]}}]}]
	}`
	resp := postWebhook(t, app, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	if len(service.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(service.events))
	}
	event := service.events[0]
	if event.Sender != "521111" || event.Text != "hello" || event.ButtonID != "" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestWebhookReceive_InteractiveButtonReply(t *testing.T) {
	service := &fakeChatService{}
	app := newWebhookApp(service)

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{"changes": [{"value": {"messages": [
			{"from": "521111", "interactive": {"type": "button_reply", "button_reply": {"id": "btn_products", "title": "Products"}}}
		]}}]}]
	}`
	resp := postWebhook(t, app, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	if len(service.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(service.events))
	}
	if service.events[0].ButtonID != "btn_products" {
		t.Fatalf("expected button id 'btn_products', got %q", service.events[0].ButtonID)
	}
}

func TestWebhookReceive_LegacyButtonPayload(t *testing.T) {
	service := &fakeChatService{}
	app := newWebhookApp(service)

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{"changes": [{"value": {"messages": [
			{"from": "521111", "button": {"payload": "btn_back", "text": "Back"}}
		]}}]}]
	}`
	resp := postWebhook(t, app, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	if len(service.events) != 1 || service.events[0].ButtonID != "btn_back" {
		t.Fatalf("unexpected events: %+v", service.events)
	}
}

func TestWebhookReceive_MalformedPayloadsAreAcknowledged(t *testing.T) {
	service := &fakeChatService{}
	app := newWebhookApp(service)

	cases := []string{
		`not json at all`,
		`{}`,
		`{"object": "whatsapp_business_account"}`,
		`{"object": "whatsapp_business_account", "entry": []}`,
		`{"object": "whatsapp_business_account", "entry": [{"changes": [{"value": {"messages": []}}]}]}`,
		`{"object": "whatsapp_business_account", "entry": [{"changes": [{"value": {"messages": [{"text": {"body": "no sender"}}]}}]}]}`,
	}
	for _, payload := range cases {
		resp := postWebhook(t, app, payload)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("payload %q: expected 200, got %d", payload, resp.StatusCode)
		}
	}

	// None of them reached the dispatch flow.
	if len(service.events) != 0 {
		t.Fatalf("expected no events, got %+v", service.events)
	}
}

func postWebhook(t *testing.T, app *fiber.App, payload string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
