package rules

import (
	"encoding/json"
	"strings"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
)

// RedirectSentinel is the button value that sends the user back to the main
// menu instead of a literal reply. The legacy rules files used "menu".
const RedirectSentinel = "show-main-menu"

const legacyRedirectSentinel = "menu"

// defaultGated are the button ids that require a verified session when the
// rules file does not declare its own "gated" section.
var defaultGated = []string{"btn_balance", "btn_quote", "btn_track"}

// ButtonPage is a text prompt plus its reply buttons. Both the main menu,
// paged menus and categories share this shape.
type ButtonPage struct {
	Text    string              `json:"text"`
	Buttons []domainChat.Button `json:"buttons"`
}

// Table is an immutable snapshot of the decision data driving all
// non-identity dispatch. Replace the whole table to update it; a dispatch in
// flight keeps the snapshot it started with.
type Table struct {
	Menu       ButtonPage
	Pages      map[string]ButtonPage
	Categories map[string]ButtonPage
	Products   map[string]string
	Buttons    map[string]string
	Gated      []string
}

type ResolutionKind int

const (
	ResolveMiss ResolutionKind = iota
	ResolvePage
	ResolveCategory
	ResolveProduct
	ResolveLiteral
	ResolveRedirect
)

// Resolution is the outcome of a tiered button lookup.
type Resolution struct {
	Kind    ResolutionKind
	Text    string
	Buttons []domainChat.Button
}

// rawPage matches top-level entries of the form {"type":"buttons",...} that
// act as extra menu pages keyed directly by button id.
type rawPage struct {
	Type    string              `json:"type"`
	Text    string              `json:"text"`
	Buttons []domainChat.Button `json:"buttons"`
}

// Empty returns a table with no rules. Every lookup on it is a miss.
func Empty() *Table {
	return &Table{
		Pages:      map[string]ButtonPage{},
		Categories: map[string]ButtonPage{},
		Products:   map[string]string{},
		Buttons:    map[string]string{},
	}
}

// ParseTable decodes a rules blob. Absent or malformed sections degrade to
// empty maps; only a blob that is not a JSON object at the top level is an
// error, and even then the returned table is usable (empty).
func ParseTable(raw []byte) (*Table, error) {
	table := Empty()
	if len(raw) == 0 {
		return table, nil
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return table, err
	}

	if data, ok := sections["menu"]; ok {
		_ = json.Unmarshal(data, &table.Menu)
	}
	if data, ok := sections["categories"]; ok {
		_ = json.Unmarshal(data, &table.Categories)
	}
	if data, ok := sections["products"]; ok {
		_ = json.Unmarshal(data, &table.Products)
	}
	if data, ok := sections["buttons"]; ok {
		_ = json.Unmarshal(data, &table.Buttons)
	}
	if data, ok := sections["gated"]; ok {
		_ = json.Unmarshal(data, &table.Gated)
	}

	// Any remaining top-level object of type "buttons" is a paged menu
	// addressable by button id.
	for key, data := range sections {
		switch key {
		case "menu", "categories", "products", "buttons", "gated":
			continue
		}
		var page rawPage
		if err := json.Unmarshal(data, &page); err != nil {
			continue
		}
		if page.Type != "buttons" {
			continue
		}
		table.Pages[key] = ButtonPage{Text: page.Text, Buttons: page.Buttons}
	}

	if table.Pages == nil {
		table.Pages = map[string]ButtonPage{}
	}
	if table.Categories == nil {
		table.Categories = map[string]ButtonPage{}
	}
	if table.Products == nil {
		table.Products = map[string]string{}
	}
	if table.Buttons == nil {
		table.Buttons = map[string]string{}
	}

	return table, nil
}

// Resolve performs the tiered button lookup. Precedence is fixed: paged
// menus, then categories, then products, then general buttons. The first
// tier containing the id wins; an id found nowhere is a deliberate miss.
func (t *Table) Resolve(buttonID string) Resolution {
	if page, ok := t.Pages[buttonID]; ok {
		return Resolution{Kind: ResolvePage, Text: page.Text, Buttons: page.Buttons}
	}
	if cat, ok := t.Categories[buttonID]; ok {
		return Resolution{Kind: ResolveCategory, Text: cat.Text, Buttons: cat.Buttons}
	}
	if reply, ok := t.Products[buttonID]; ok {
		return Resolution{Kind: ResolveProduct, Text: reply}
	}
	if value, ok := t.Buttons[buttonID]; ok {
		if value == RedirectSentinel || value == legacyRedirectSentinel {
			return Resolution{Kind: ResolveRedirect}
		}
		return Resolution{Kind: ResolveLiteral, Text: value}
	}
	return Resolution{Kind: ResolveMiss}
}

// IsGated reports whether a button id belongs to the identity-gated set.
func (t *Table) IsGated(buttonID string) bool {
	gated := t.Gated
	if len(gated) == 0 {
		gated = defaultGated
	}
	for _, id := range gated {
		if strings.EqualFold(id, buttonID) {
			return true
		}
	}
	return false
}

type IRulesUsecase interface {
	// Snapshot returns the current table. The pointer is swapped atomically
	// on replace, so callers can hold it for a whole dispatch.
	Snapshot() *Table
	// Raw returns the stored blob exactly as last persisted.
	Raw() []byte
	// Replace swaps in a whole new table and persists it. There are no
	// partial or merge updates.
	Replace(raw []byte) error
}
