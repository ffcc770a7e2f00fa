package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akbar-dignity/custom-whatsapp-chatb/core/config"
	"github.com/akbar-dignity/custom-whatsapp-chatb/ui/rest"
	"github.com/akbar-dignity/custom-whatsapp-chatb/ui/rest/middleware"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the webhook and admin API over http",
	Run:   restServer,
}

func init() {
	restCmd.Flags().StringP("port", "p", "", "change port number with --port <number> | example: --port=8080")
	restCmd.Flags().BoolP("debug", "d", false, "displaying debug log with --debug <true/false> | example: --debug=true")
	restCmd.Flags().String("basic-auth", "", "Basic auth for the admin API (format: user:pass,user2:pass2)")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	cfg := config.Global

	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" {
		cfg.App.Port = portFlag
	}
	if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
		cfg.App.Debug = true
		logrus.SetLevel(logrus.DebugLevel)
	}
	if baFlag, _ := cmd.Flags().GetString("basic-auth"); baFlag != "" {
		cfg.App.BasicAuth = strings.Split(baFlag, ",")
	}

	fiberConfig := fiber.Config{
		Network:               "tcp",
		AppName:               "WhatsApp Auto-Responder",
		DisableStartupMessage: false,
		ServerHeader:          "Hidden",
	}
	if len(cfg.App.TrustedProxies) > 0 {
		fiberConfig.EnableTrustedProxyCheck = true
		fiberConfig.TrustedProxies = cfg.App.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedFor
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.Recovery())

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	app.Static(cfg.App.BasePath+"/statics", "./statics")

	// Webhook endpoints stay outside the admin group: the messaging
	// platform authenticates via the verify token, not basic auth.
	root := app.Group(cfg.App.BasePath)
	rest.InitRestWebhook(root, chatUsecase, cfg.Whatsapp.VerifyToken, workerPool)

	apiGroup := app.Group(cfg.App.BasePath + "/api")
	if len(cfg.App.BasicAuth) > 0 {
		account := make(map[string]string)
		for _, basicAuth := range cfg.App.BasicAuth {
			ba := strings.Split(basicAuth, ":")
			if len(ba) != 2 {
				logrus.Fatalln("Basic auth is not valid, please use the following format <user>:<secret>")
			}
			account[ba[0]] = ba[1]
		}
		apiGroup.Use(basicauth.New(basicauth.Config{Users: account}))
	}

	rest.InitRestRules(apiGroup, rulesUsecase)
	rest.InitRestConversation(apiGroup, conversationUsecase)
	rest.InitRestLedger(apiGroup, ledgerUsecase)
	rest.InitRestHealth(apiGroup, healthUsecase)

	apiGroup.All("/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "API endpoint not found",
			"path":  c.Path(),
		})
	})

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] termination signal received, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] error during fiber shutdown: %v", err)
		}
		StopApp()
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalln("Failed to start: ", err.Error())
	}
}
