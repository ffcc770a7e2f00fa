package cmd

import (
	"context"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akbar-dignity/custom-whatsapp-chatb/core/config"
	"github.com/akbar-dignity/custom-whatsapp-chatb/core/database"
	domainChat "github.com/akbar-dignity/custom-whatsapp-chatb/domains/chat"
	domainHealth "github.com/akbar-dignity/custom-whatsapp-chatb/domains/health"
	domainLedger "github.com/akbar-dignity/custom-whatsapp-chatb/domains/ledger"
	domainRules "github.com/akbar-dignity/custom-whatsapp-chatb/domains/rules"
	domainSend "github.com/akbar-dignity/custom-whatsapp-chatb/domains/send"
	domainSession "github.com/akbar-dignity/custom-whatsapp-chatb/domains/session"
	"github.com/akbar-dignity/custom-whatsapp-chatb/engine"
	"github.com/akbar-dignity/custom-whatsapp-chatb/infrastructure/valkey"
	"github.com/akbar-dignity/custom-whatsapp-chatb/integrations/whatsapp"
	"github.com/akbar-dignity/custom-whatsapp-chatb/pkg/msgworker"
	"github.com/akbar-dignity/custom-whatsapp-chatb/pkg/utils"
	"github.com/akbar-dignity/custom-whatsapp-chatb/repository"
	"github.com/akbar-dignity/custom-whatsapp-chatb/usecase"
)

var (
	// Usecase
	chatUsecase         domainChat.IChatUsecase
	sendUsecase         domainSend.ISendUsecase
	rulesUsecase        domainRules.IRulesUsecase
	ledgerUsecase       domainLedger.ILedgerUsecase
	conversationUsecase domainChat.IConversationUsecase
	healthUsecase       domainHealth.IHealthUsecase

	sessionStore domainSession.ISessionStore
	workerPool   *msgworker.Pool
	valkeyClient *valkey.Client
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Short: "Rule-driven WhatsApp auto-responder",
	Long: `Webhook-driven auto-responder for the WhatsApp Cloud API.
Inbound messages are matched against a hot-swappable rule table and a
per-sender conversation state machine, and replies are pushed back
through the Graph API.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.OnInitialize(initApp)
}

func initApp() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("[APP] failed to load configuration: %v", err)
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// preparing folders if not exist
	if err := utils.CreateFolder(cfg.Paths.Statics, cfg.Paths.Storages); err != nil {
		logrus.Errorln(err)
	}

	ctx := context.Background()

	db, err := database.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[APP] failed to open database: %v", err)
	}

	rulesRepo := repository.NewRulesGormRepository(db)
	conversationRepo := repository.NewConversationGormRepository(db)
	ledgerRepo := repository.NewLedgerGormRepository(db)

	if err := rulesRepo.InitSchema(ctx); err != nil {
		logrus.Fatalf("[APP] failed to migrate rules schema: %v", err)
	}
	if err := conversationRepo.InitSchema(ctx); err != nil {
		logrus.Fatalf("[APP] failed to migrate conversations schema: %v", err)
	}
	if err := ledgerRepo.InitSchema(ctx); err != nil {
		logrus.Fatalf("[APP] failed to migrate ledger schema: %v", err)
	}

	sessionTTL := time.Duration(cfg.Engine.SessionTTLMinutes) * time.Minute
	sessionStore = buildSessionStore(cfg, sessionTTL)

	rulesUsecase = usecase.NewRulesService(rulesRepo, cfg.Engine.RulesSeedPath)
	conversationUsecase = usecase.NewConversationService(conversationRepo)
	ledgerUsecase = usecase.NewLedgerService(ledgerRepo)

	cloudClient := whatsapp.NewCloudClient(
		cfg.Whatsapp.GraphBaseURL,
		cfg.Whatsapp.AccessToken,
		cfg.Whatsapp.PhoneNumberID,
		time.Duration(cfg.Whatsapp.SendTimeoutMs)*time.Millisecond,
	)
	sendUsecase = usecase.NewSendService(cloudClient)

	dispatchEngine := engine.New(rulesUsecase, ledgerUsecase)
	chatUsecase = usecase.NewChatService(dispatchEngine, sessionStore, conversationUsecase, sendUsecase)
	healthUsecase = usecase.NewHealthService(db, rulesUsecase, sessionStore)

	workerPool = msgworker.NewPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)
	workerPool.Start(ctx)
}

// buildSessionStore picks the session backend. Valkey keeps sessions across
// restarts; memory is the default and falls back in when Valkey is
// unreachable so the responder still comes up.
func buildSessionStore(cfg *config.Config, ttl time.Duration) domainSession.ISessionStore {
	if cfg.Engine.SessionBackend == "valkey" && cfg.Valkey.Enabled {
		client, err := valkey.NewClient(valkey.Config{
			Address:   cfg.Valkey.Address,
			Password:  cfg.Valkey.Password,
			DB:        cfg.Valkey.DB,
			KeyPrefix: cfg.Valkey.KeyPrefix,
		})
		if err != nil {
			logrus.WithError(err).Warn("[APP] valkey unreachable, falling back to in-memory sessions")
			return repository.NewMemorySessionStore(ttl)
		}
		valkeyClient = client
		logrus.Info("[APP] using valkey session store")
		return repository.NewValkeySessionStore(client, ttl)
	}
	return repository.NewMemorySessionStore(ttl)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of the worker pool and connections.
func StopApp() {
	logrus.Info("[APP] stopping application...")

	if workerPool != nil {
		workerPool.Stop()
	}
	if valkeyClient != nil {
		valkeyClient.Close()
	}

	logrus.Info("[APP] application stopped cleanly")
}
