package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	domainRules "github.com/akbar-dignity/custom-whatsapp-chatb/domains/rules"
	"github.com/akbar-dignity/custom-whatsapp-chatb/ui/rest/middleware"
)

type fakeRulesService struct {
	raw        []byte
	replaceErr error
	replaced   []byte
}

func (f *fakeRulesService) Snapshot() *domainRules.Table {
	table, _ := domainRules.ParseTable(f.raw)
	return table
}

func (f *fakeRulesService) Raw() []byte { return f.raw }

func (f *fakeRulesService) Replace(raw []byte) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = raw
	f.raw = raw
	return nil
}

func newRulesApp(service domainRules.IRulesUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestRules(app, service)
	return app
}

func TestRulesGet_ReturnsStoredBlob(t *testing.T) {
	stored := `{"menu": {"text": "Hi", "buttons": []}}`
	app := newRulesApp(&fakeRulesService{raw: []byte(stored)})

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != stored {
		t.Fatalf("expected stored blob back, got %q", string(body))
	}
}

func TestRulesGet_EmptyStoreYieldsEmptyObject(t *testing.T) {
	app := newRulesApp(&fakeRulesService{})

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "{}" {
		t.Fatalf("expected {}, got %q", string(body))
	}
}

func TestRulesUpdate_ReplacesTable(t *testing.T) {
	service := &fakeRulesService{}
	app := newRulesApp(service)

	payload := `{"menu": {"text": "New", "buttons": []}}`
	req := httptest.NewRequest(http.MethodPost, "/update-rules", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d, body=%s", resp.StatusCode, string(b))
	}
	if string(service.replaced) != payload {
		t.Fatalf("service did not receive the new blob: %q", string(service.replaced))
	}

	var envelope struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if envelope.Code != "SUCCESS" {
		t.Fatalf("expected SUCCESS, got %q", envelope.Code)
	}
}

func TestRulesUpdate_RejectsNonObjectBody(t *testing.T) {
	service := &fakeRulesService{}
	app := newRulesApp(service)

	cases := []string{``, `["array"]`, `not json`}
	for _, payload := range cases {
		req := httptest.NewRequest(http.MethodPost, "/update-rules", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload %q: expected 400, got %d", payload, resp.StatusCode)
		}
	}
	if service.replaced != nil {
		t.Fatalf("invalid payload must not reach the service")
	}
}
