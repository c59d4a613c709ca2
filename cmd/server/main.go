package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/leadpilot-crm/leadpilot/agent/assistant"
	"github.com/leadpilot-crm/leadpilot/agent/llm"
	"github.com/leadpilot-crm/leadpilot/agent/prompt"
	statex "github.com/leadpilot-crm/leadpilot/agent/state"
	toolx "github.com/leadpilot-crm/leadpilot/agent/tool"
	"github.com/leadpilot-crm/leadpilot/internal/postgres"
	"github.com/leadpilot-crm/leadpilot/internal/reminder"
	"github.com/leadpilot-crm/leadpilot/internal/server"
	configx "github.com/leadpilot-crm/leadpilot/pkg/config"
	_ "github.com/leadpilot-crm/leadpilot/pkg/logger/autoload"
	openrouterx "github.com/leadpilot-crm/leadpilot/pkg/openrouter"
	qstashx "github.com/leadpilot-crm/leadpilot/pkg/qstash"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgCfg := configx.MustNew[postgres.Config]("POSTGRES")
	db, err := postgres.Connect(*pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer func() { _ = db.Close() }()
	if err := postgres.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate postgres schema")
	}
	store := postgres.NewStore(db)

	llmCfg := configx.MustNew[llm.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}
	chatCfg := llmCfg.OpenRouterFor(llm.RoleChat)
	chatModel, err := chatCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("build chat model")
	}

	// Thread memory falls back to in-process storage when the Upstash
	// Redis env vars are absent.
	var threads statex.Store = statex.NewMemoryStore()
	redisCfg := configx.MustNew[statex.RedisConfig]("UPSTASH_REDIS")
	if redisCfg.URL != "" {
		redisStore, err := statex.NewRedisStore(*redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build redis thread store")
		}
		threads = redisStore
	}

	prompts := prompt.LoadPromptSet()
	infos, execute := toolx.Build(toolx.NewToolset(store))
	summarizerCfg := llmCfg.OpenRouterFor(llm.RoleSummarizer)
	summarizer := assistant.NewTranscriptSummarizer(
		openrouterx.NewClient(summarizerCfg),
		summarizerCfg.Model,
		prompts.Summarizer,
	)

	agentRuntime, err := assistant.New(ctx, chatModel, infos, execute, threads, prompts.Assistant,
		assistant.WithSummarizer(summarizer))
	if err != nil {
		log.Fatal().Err(err).Msg("build assistant")
	}

	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	reminderCfg := configx.MustNew[reminder.Config]("REMINDER")
	reminders := reminder.NewScheduler(qstashx.MustNew(*qstashCfg), reminderCfg.CallbackURL)

	serverCfg := configx.MustNew[server.Config]("SERVER")
	srv := server.New(*serverCfg,
		server.NewLeadHandler(store, reminders),
		server.NewAgentHandler(agentRuntime),
	)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}
