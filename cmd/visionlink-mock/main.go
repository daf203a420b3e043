package main

import (
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"visionlink/internal/config"
	"visionlink/internal/mockapi"
)

func main() {
	cfg := config.LoadServer()
	config.InitLogger(os.Stderr, cfg.LogLevel)

	opts := mockapi.Options{AllowedOrigin: cfg.AllowedOrigin}
	if cfg.PlansFile != "" {
		plans, err := mockapi.LoadPlans(cfg.PlansFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.PlansFile).Msg("failed to load plan catalog")
		}
		opts.Plans = plans
	}
	s := mockapi.New(opts)

	if cfg.OpenAIAPIKey != "" {
		spec, err := mockapi.LoadPromptSpec(cfg.ChatbotPrompt)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load chatbot prompt")
		}
		s.SetReplier(mockapi.NewOpenAIReplier(spec, openai.NewClient(cfg.OpenAIAPIKey), cfg.Model, s.PlansFunc()))
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("VisionLink mock API listening")
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
