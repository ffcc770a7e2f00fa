package validations

import (
	"context"
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	pkgError "github.com/akbar-dignity/custom-whatsapp-chatb/pkg/error"
)

// ValidateReplaceRules checks the raw body of an update-rules request before
// it is handed to the rules service. Section-level problems are tolerated by
// the parser; only a body that is not a JSON object at all is rejected.
func ValidateReplaceRules(ctx context.Context, raw []byte) error {
	if err := validation.Validate(string(raw), validation.Required); err != nil {
		return pkgError.ValidationError("rules body is required")
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return pkgError.ValidationError("rules body must be a JSON object")
	}

	return nil
}
