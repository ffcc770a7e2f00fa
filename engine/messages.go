package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// User-facing reply texts. The ❌ variants are kept verbatim from the legacy
// responder so existing conversations read the same after the migration.
const (
	MsgInvalidSelection = "❌ Invalid selection."
	MsgFallback         = "❌ I didn’t understand that. Type 'menu' to see options."

	MsgIdentityPrompt  = "👋 Welcome! Please reply with your account name so we can verify you."
	MsgIdentityGated   = "🔒 That option needs a verified account. Please reply with your account name first."
	MsgIdentityMiss    = "❌ We couldn’t find that account. Please check the spelling and try again, or contact support."
	MsgIdentityFailure = "⚠️ Verification is temporarily unavailable. Please try again in a moment."

	MsgNoBalance      = "You have no outstanding balance on record. 🎉"
	MsgBalanceFailure = "⚠️ We couldn’t fetch your balance right now. Please try again later."

	MsgQuoteHowTo = "📝 To request a quotation, send the item and quantity separated by a comma. Example: Cement, 50"
	MsgQuoteSoon  = "🧾 Quotation requests are not yet available. Our team will contact you shortly."

	MsgTrackingSoon = "🚚 Order tracking is not yet available. Our team will contact you shortly."
)

func identityConfirmation(name string) string {
	return fmt.Sprintf("✅ Thanks %s, your account is verified.", name)
}

func balanceMessage(amount float64, dueDate string) string {
	return fmt.Sprintf("💰 Your latest balance is %s, due on %s.", humanize.FormatFloat("#,###.##", amount), dueDate)
}
