package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// Credential checks are per-stage (RequireGeneration etc.) so that, say,
// running only the dataset conversion does not demand an API key.
func (c *Config) Validate() error {
	if c.Generator.BatchSize <= 0 {
		return fmt.Errorf("generator.batch_size must be > 0 (got %d)", c.Generator.BatchSize)
	}
	if c.Generator.TargetQA <= 0 {
		return fmt.Errorf("generator.target_qa must be > 0 (got %d)", c.Generator.TargetQA)
	}
	if c.Generator.Provider != "openai" && c.Generator.Provider != "anthropic" {
		return fmt.Errorf("generator.provider must be openai or anthropic (got %q)", c.Generator.Provider)
	}
	if c.Dataset.TrainRatio <= 0 || c.Dataset.TrainRatio > 1 {
		return fmt.Errorf("dataset.train_ratio must be in (0, 1] (got %v)", c.Dataset.TrainRatio)
	}
	if c.FineTune.Epochs <= 0 {
		return fmt.Errorf("finetune.epochs must be > 0 (got %d)", c.FineTune.Epochs)
	}
	if c.FineTune.BatchSize <= 0 {
		return fmt.Errorf("finetune.batch_size must be > 0 (got %d)", c.FineTune.BatchSize)
	}
	if c.FineTune.LearningRateMultiplier <= 0 {
		return fmt.Errorf("finetune.learning_rate_multiplier must be > 0 (got %v)", c.FineTune.LearningRateMultiplier)
	}
	if c.FineTune.PollInterval <= 0 {
		return fmt.Errorf("finetune.poll_interval must be > 0 (got %v)", c.FineTune.PollInterval)
	}
	return nil
}

// RequireGeneration checks that credentials for the configured generation
// provider are present.
func (c *Config) RequireGeneration() error {
	switch c.Generator.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for generation with provider=anthropic")
		}
	default:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for generation with provider=openai")
		}
	}
	return nil
}

// RequireFineTuning checks that fine-tuning credentials are present.
func (c *Config) RequireFineTuning() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for fine-tuning")
	}
	return nil
}

// RequireDeploy checks that hosting-platform credentials are present.
func (c *Config) RequireDeploy() error {
	if c.Deploy.HFToken == "" {
		return fmt.Errorf("HF_TOKEN is required for deployment")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for deployment")
	}
	return nil
}
