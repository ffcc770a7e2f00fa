package engine

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	domainLedger "github.com/akbar-dignity/custom-whatsapp-chatb/domains/ledger"
	domainRules "github.com/akbar-dignity/custom-whatsapp-chatb/domains/rules"
	domainSession "github.com/akbar-dignity/custom-whatsapp-chatb/domains/session"
)

// RuleSource hands out the current rule table snapshot. The snapshot is
// swapped atomically on reload, so one Decide call never observes a
// half-updated table.
type RuleSource interface {
	Snapshot() *domainRules.Table
}

// Engine is the conversation dispatch state machine. Decide is the only
// entry point: it takes one normalized inbound event plus the sender's
// session and returns the new session and the ordered outbound actions.
// Collaborator failures degrade to user-visible texts, never errors.
type Engine struct {
	rules  RuleSource
	ledger domainLedger.ILedgerUsecase
}

func New(rules RuleSource, ledger domainLedger.ILedgerUsecase) *Engine {
	return &Engine{rules: rules, ledger: ledger}
}

// Decide evaluates one inbound event. Branch order matters: button taps are
// handled first regardless of state, then the identity state machine, then
// verified free-text matching.
func (e *Engine) Decide(ctx context.Context, event domainChat.InboundEvent, sess domainSession.Session) (domainSession.Session, []domainChat.Action) {
	table := e.rules.Snapshot()
	sess.UpdatedAt = time.Now().UTC()

	if event.ButtonID != "" {
		return e.decideButton(ctx, table, event.ButtonID, sess)
	}

	switch sess.State {
	case domainSession.StateNew:
		// One-time prompt; the inbound text is not reprocessed this turn.
		sess.State = domainSession.StateAwaitingIdentity
		return sess, []domainChat.Action{domainChat.NewTextAction(MsgIdentityPrompt)}
	case domainSession.StateAwaitingIdentity:
		return e.decideIdentityClaim(ctx, event.Text, sess)
	default:
		return sess, e.decideVerifiedText(ctx, table, event.Text, sess)
	}
}

// decideButton resolves a tapped button through the tiered rule lookup.
// Button handling is a pure lookup and leaves the state untouched, except
// for unresolved gated ids on unverified sessions, which re-route into the
// identity prompt flow. The originally requested action is not remembered.
func (e *Engine) decideButton(ctx context.Context, table *domainRules.Table, buttonID string, sess domainSession.Session) (domainSession.Session, []domainChat.Action) {
	res := table.Resolve(buttonID)

	switch res.Kind {
	case domainRules.ResolvePage, domainRules.ResolveCategory:
		return sess, []domainChat.Action{domainChat.NewButtonsAction(res.Text, res.Buttons)}
	case domainRules.ResolveProduct, domainRules.ResolveLiteral:
		return sess, []domainChat.Action{domainChat.NewTextAction(res.Text)}
	case domainRules.ResolveRedirect:
		return sess, []domainChat.Action{mainMenu(table)}
	}

	if table.IsGated(buttonID) {
		if sess.State != domainSession.StateVerified {
			if sess.State == domainSession.StateNew {
				sess.State = domainSession.StateAwaitingIdentity
			}
			return sess, []domainChat.Action{domainChat.NewTextAction(MsgIdentityGated)}
		}
		return sess, e.gatedAction(ctx, buttonID, sess)
	}

	return sess, []domainChat.Action{domainChat.NewTextAction(MsgInvalidSelection)}
}

// gatedAction executes the lookup behind a gated button for a verified
// session.
func (e *Engine) gatedAction(ctx context.Context, buttonID string, sess domainSession.Session) []domainChat.Action {
	id := strings.ToLower(buttonID)
	switch {
	case strings.Contains(id, "balance"):
		return e.balanceActions(ctx, sess.IdentityKey)
	case strings.Contains(id, "quote"):
		return []domainChat.Action{domainChat.NewTextAction(MsgQuoteHowTo)}
	default:
		return []domainChat.Action{domainChat.NewTextAction(MsgTrackingSoon)}
	}
}

// decideIdentityClaim treats the inbound text as an identity claim and asks
// the directory for a case-insensitive exact match.
func (e *Engine) decideIdentityClaim(ctx context.Context, claim string, sess domainSession.Session) (domainSession.Session, []domainChat.Action) {
	identity, err := e.ledger.FindIdentity(ctx, strings.TrimSpace(claim))
	if err != nil {
		logrus.WithError(err).Warn("[ENGINE] identity lookup failed")
		return sess, []domainChat.Action{domainChat.NewTextAction(MsgIdentityFailure)}
	}
	if identity == nil {
		return sess, []domainChat.Action{domainChat.NewTextAction(MsgIdentityMiss)}
	}

	sess.State = domainSession.StateVerified
	sess.IdentityKey = identity.Key
	return sess, []domainChat.Action{
		domainChat.NewTextAction(identityConfirmation(identity.Name)),
		mainMenu(e.rules.Snapshot()),
	}
}

// decideVerifiedText matches free text from a verified sender. Branch order
// is fixed: menu literal, balance keywords, quotation keywords, draft quote
// line, generic fallback.
func (e *Engine) decideVerifiedText(ctx context.Context, table *domainRules.Table, text string, sess domainSession.Session) []domainChat.Action {
	normalized := strings.ToLower(strings.TrimSpace(text))

	switch {
	case normalized == "menu":
		return []domainChat.Action{mainMenu(table)}
	case strings.Contains(normalized, "balance"):
		return e.balanceActions(ctx, sess.IdentityKey)
	case strings.Contains(normalized, "quotation") || strings.Contains(normalized, "quote"):
		return []domainChat.Action{domainChat.NewTextAction(MsgQuoteHowTo)}
	case isDraftQuoteLine(text):
		return []domainChat.Action{domainChat.NewTextAction(MsgQuoteSoon)}
	default:
		return []domainChat.Action{domainChat.NewTextAction(MsgFallback)}
	}
}

func (e *Engine) balanceActions(ctx context.Context, identityKey string) []domainChat.Action {
	balance, err := e.ledger.LatestBalance(ctx, identityKey)
	if err != nil {
		logrus.WithError(err).WithField("identity", identityKey).Warn("[ENGINE] balance lookup failed")
		return []domainChat.Action{domainChat.NewTextAction(MsgBalanceFailure)}
	}
	if balance == nil {
		return []domainChat.Action{domainChat.NewTextAction(MsgNoBalance)}
	}
	return []domainChat.Action{domainChat.NewTextAction(balanceMessage(balance.Amount, balance.DueDate))}
}

// isDraftQuoteLine recognizes an "<item>, <quantity>" line: exactly two
// comma-separated fields whose second field parses as a number.
func isDraftQuoteLine(text string) bool {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return false
	}
	item := strings.TrimSpace(parts[0])
	qty := strings.TrimSpace(parts[1])
	if item == "" || qty == "" {
		return false
	}
	_, err := strconv.ParseFloat(qty, 64)
	return err == nil
}

func mainMenu(table *domainRules.Table) domainChat.Action {
	return domainChat.NewButtonsAction(table.Menu.Text, table.Menu.Buttons)
}
