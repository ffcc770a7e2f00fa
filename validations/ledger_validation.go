package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainLedger "github.com/akbar-dignity/custom-whatsapp-chatb/domains/ledger"
	pkgError "github.com/akbar-dignity/custom-whatsapp-chatb/pkg/error"
)

func ValidateCreateAccount(ctx context.Context, request domainLedger.CreateAccountRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Key, validation.Required, validation.Length(1, 64)),
		validation.Field(&request.Name, validation.Required, validation.Length(1, 128)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateAddBalance(ctx context.Context, request domainLedger.AddBalanceRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.AccountKey, validation.Required),
		validation.Field(&request.DueDate, validation.Required, validation.Date("2006-01-02")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
