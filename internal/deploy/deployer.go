package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Request describes one Space deployment.
type Request struct {
	Dialect string
	ModelID string
	// Organization owns the Space; empty means the token's user.
	Organization string
	Private      bool
	// Force redeploys over an existing Space instead of short-circuiting.
	Force bool
}

// Deployer publishes chat bundles for fine-tuned models.
type Deployer struct {
	hub *SpaceClient
	log *slog.Logger
}

func NewDeployer(hub *SpaceClient, logger *slog.Logger) *Deployer {
	return &Deployer{hub: hub, log: logger.With("component", "deploy")}
}

// Deploy renders the bundle and pushes it, returning the Space URL. An
// existing Space is left untouched unless req.Force is set.
func (d *Deployer) Deploy(ctx context.Context, req Request) (string, error) {
	if req.ModelID == "" {
		return "", fmt.Errorf("deploy: model id is required")
	}

	owner := req.Organization
	if owner == "" {
		name, err := d.hub.Whoami(ctx)
		if err != nil {
			return "", fmt.Errorf("deploy: resolve owner: %w", err)
		}
		owner = name
	}

	spaceName := SpaceName(req.Dialect)
	spaceURL := fmt.Sprintf("%s/spaces/%s/%s", defaultHubURL, owner, spaceName)
	log := d.log.With("space", owner+"/"+spaceName, "model", req.ModelID)

	exists, err := d.hub.SpaceExists(ctx, owner, spaceName)
	if err != nil {
		return "", fmt.Errorf("deploy: check space: %w", err)
	}
	if exists && !req.Force {
		log.Info("space already exists, skipping deployment")
		return spaceURL, nil
	}
	if !exists {
		if err := d.hub.CreateSpace(ctx, owner, spaceName, req.Private); err != nil {
			return "", fmt.Errorf("deploy: create space: %w", err)
		}
	}

	files := BuildBundle(req.Dialect, req.ModelID, owner, spaceName, time.Now())
	message := fmt.Sprintf("Deploy chat interface for model %s", req.ModelID)
	if err := d.hub.CommitFiles(ctx, owner, spaceName, message, files); err != nil {
		return "", fmt.Errorf("deploy: push bundle: %w", err)
	}

	log.Info("deployment complete", slog.String("url", spaceURL))
	return spaceURL, nil
}
