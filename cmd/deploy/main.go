// Command deploy publishes a hosted chat interface for a dialect's
// fine-tuned model as a Hugging Face Space. The model id comes from the
// -model-id flag or, by default, from the dotenv binding written by the
// fine-tuning step.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/deploy"
	"github.com/heartmarshall/dialect-tuner/internal/domain"
	"github.com/heartmarshall/dialect-tuner/internal/envstore"
	"github.com/heartmarshall/dialect-tuner/internal/logging"
)

func main() {
	dialect := flag.String("dialect", "", "dialect whose model to deploy (required)")
	modelID := flag.String("model-id", "", "model id to deploy (default: binding from the env store)")
	force := flag.Bool("force", false, "redeploy over an existing Space")
	flag.Parse()

	bootLog := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	if *dialect == "" {
		logger.Error("-dialect is required")
		os.Exit(1)
	}
	if err := cfg.RequireDeploy(); err != nil {
		logger.Error("missing credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	model := *modelID
	if model == "" {
		store := envstore.New(cfg.Paths.EnvFile)
		model, err = store.Get(domain.BindingKey(*dialect))
		if err != nil {
			logger.Error("no model binding for dialect; run fine-tuning first or pass -model-id",
				slog.String("dialect", *dialect),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := deploy.NewSpaceClient(cfg.Deploy.HFToken, logger)
	deployer := deploy.NewDeployer(hub, logger)

	url, err := deployer.Deploy(ctx, deploy.Request{
		Dialect:      *dialect,
		ModelID:      model,
		Organization: cfg.Deploy.Organization,
		Private:      cfg.Deploy.Private,
		Force:        *force,
	})
	if err != nil {
		logger.Error("deployment failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Deployed to %s\n", url)
	fmt.Println("Remember to add OPENAI_API_KEY as a secret in the Space settings.")
}
