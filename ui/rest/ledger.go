package rest

import (
	"github.com/gofiber/fiber/v2"

	domainLedger "github.com/akbar-dignity/custom-whatsapp-chatb/domains/ledger"
	pkgError "github.com/akbar-dignity/custom-whatsapp-chatb/pkg/error"
	"github.com/akbar-dignity/custom-whatsapp-chatb/pkg/utils"
)

type Ledger struct {
	Service domainLedger.ILedgerUsecase
}

func InitRestLedger(app fiber.Router, service domainLedger.ILedgerUsecase) Ledger {
	rest := Ledger{Service: service}
	app.Get("/accounts", rest.List)
	app.Post("/accounts", rest.CreateAccount)
	app.Post("/accounts/:key/balances", rest.AddBalance)

	return rest
}

func (handler *Ledger) List(c *fiber.Ctx) error {
	accounts, err := handler.Service.ListAccounts(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Accounts fetched",
		Results: accounts,
	})
}

func (handler *Ledger) CreateAccount(c *fiber.Ctx) error {
	var request domainLedger.CreateAccountRequest
	if err := c.BodyParser(&request); err != nil {
		panic(pkgError.ValidationError("invalid request body"))
	}

	identity, err := handler.Service.CreateAccount(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Account saved",
		Results: identity,
	})
}

func (handler *Ledger) AddBalance(c *fiber.Ctx) error {
	var request domainLedger.AddBalanceRequest
	if err := c.BodyParser(&request); err != nil {
		panic(pkgError.ValidationError("invalid request body"))
	}
	request.AccountKey = c.Params("key")

	balance, err := handler.Service.AddBalance(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Balance recorded",
		Results: balance,
	})
}
