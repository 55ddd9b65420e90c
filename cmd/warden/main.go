package main

import (
	"context"
	"os"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wardenbot/warden/internal/bot"
	"github.com/wardenbot/warden/internal/classify"
	geminiclassify "github.com/wardenbot/warden/internal/classify/gemini"
	openaiclassify "github.com/wardenbot/warden/internal/classify/openai"
	"github.com/wardenbot/warden/internal/config"
	"github.com/wardenbot/warden/internal/db/sqlite"
	"github.com/wardenbot/warden/internal/handlers/moderation"
	"github.com/wardenbot/warden/internal/infra"
	"github.com/wardenbot/warden/internal/observability"
	"github.com/wardenbot/warden/internal/platform/telegram"
)

const maxConcurrentUpdates = 32

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatalln("cant load config")
	}
	log.SetFormatter(&config.WdFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	if err := observability.Init(ctx, cfg.MetricsAddr); err != nil {
		log.WithError(err).Fatalln("cant init observability")
	}

	go infra.GoRecoverable(-1, "process_updates", func() {
		botAPI, err := api.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			log.WithError(err).Errorln("cant initialize bot api")
			time.Sleep(1 * time.Second)
			log.Fatalln("exiting")
		}
		if log.Level(cfg.LogLevel) == log.TraceLevel {
			botAPI.Debug = true
		}
		defer botAPI.StopReceivingUpdates()

		dbClient, err := sqlite.NewSQLiteClient(ctx, infra.GetWorkDir(), "warden.db")
		if err != nil {
			log.WithError(err).Fatalln("cant open policy store")
		}
		defer dbClient.Close()

		if policies, err := dbClient.GetAllPolicies(ctx); err != nil {
			log.WithError(err).Warnln("cant preload tenant policies")
		} else {
			log.Infof("loaded policies for %d tenants", len(policies))
		}

		gateway := classify.NewGateway(
			newTextProvider(cfg.Moderation),
			classify.NewImageProvider(cfg.Moderation.ImageEndpoint, cfg.Moderation.ImageAPIKey),
		)

		service := bot.NewService(botAPI, dbClient)
		enforcer := moderation.NewEnforcer(telegram.NewOperations(botAPI))

		bot.RegisterUpdateHandler("policy", moderation.NewPolicyCommands(service))
		bot.RegisterUpdateHandler("moderator", moderation.NewModerator(service, gateway, enforcer))

		updateConfig := api.NewUpdate(0)
		updateConfig.Timeout = 60
		updateProcessor := bot.NewUpdateProcessor(service)

		updateChan, errorChan := bot.GetUpdatesChans(ctx, botAPI, updateConfig)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentUpdates)
		for {
			select {
			case err := <-errorChan:
				_ = g.Wait()
				log.WithError(err).Fatalln("bot api get updates error")
			case update := <-updateChan:
				update := update
				g.Go(func() error {
					if err := updateProcessor.Process(gctx, &update); err != nil {
						log.WithError(err).Errorln("cant process update")
					}
					return nil
				})
			case <-gctx.Done():
				_ = g.Wait()
				log.WithError(gctx.Err()).Errorln("no more updates")
				return
			}
		}
	})

	select {
	case <-infra.MonitorExecutable(ctx):
		log.Errorln("executable file was modified")
	case <-ctx.Done():
	}
	os.Exit(0)
}

func newTextProvider(cfg config.Moderation) classify.TextProvider {
	logger := log.WithField("context", "text_provider")
	switch cfg.TextProvider {
	case "gemini":
		provider, err := geminiclassify.NewGemini(cfg.TextAPIKey, cfg.TextModel, logger)
		if err != nil {
			log.WithError(err).Fatalln("cant initialize gemini provider")
		}
		return provider
	default:
		return openaiclassify.NewOpenAI(cfg.TextAPIKey, cfg.TextModel, cfg.TextBaseURL, logger)
	}
}
