package config

import "time"

// Config is the root pipeline configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Generator GeneratorConfig `yaml:"generator"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	FineTune  FineTuneConfig  `yaml:"finetune"`
	Deploy    DeployConfig    `yaml:"deploy"`
	Log       LogConfig       `yaml:"log"`
}

// PathsConfig holds file-system locations for pipeline artifacts.
type PathsConfig struct {
	DictionaryDir string `yaml:"dictionary_dir" env:"DICTIONARY_DIR" env-default:"./Dictionary"`
	OutputDir     string `yaml:"output_dir"     env:"OUTPUT_DIR"     env-default:"./Output"`
	EnvFile       string `yaml:"env_file"       env:"ENV_FILE"       env-default:"./.env"`
}

// OpenAIConfig holds OpenAI credentials and model selection.
type OpenAIConfig struct {
	APIKey          string `yaml:"api_key"          env:"OPENAI_API_KEY"`
	GenerationModel string `yaml:"generation_model" env:"OPENAI_GENERATION_MODEL" env-default:"gpt-4.1"`
	BaseModel       string `yaml:"base_model"       env:"OPENAI_BASE_MODEL"       env-default:"gpt-4.1-2025-04-14"`
}

// AnthropicConfig holds credentials for the alternative generation provider.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model  string `yaml:"model"   env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-20250514"`
}

// GeneratorConfig holds QA generation settings.
type GeneratorConfig struct {
	Provider  string `yaml:"provider"   env:"GENERATOR_PROVIDER"  env-default:"openai"`
	BatchSize int    `yaml:"batch_size" env:"GENERATOR_BATCH_SIZE" env-default:"10"`
	TargetQA  int    `yaml:"target_qa"  env:"GENERATOR_TARGET_QA"  env-default:"500"`
}

// DatasetConfig holds dataset transformation settings.
type DatasetConfig struct {
	TrainRatio float64 `yaml:"train_ratio" env:"DATASET_TRAIN_RATIO" env-default:"0.8"`
}

// FineTuneConfig holds fine-tuning job settings.
type FineTuneConfig struct {
	Epochs                 int           `yaml:"epochs"                   env:"FINETUNE_EPOCHS"        env-default:"3"`
	BatchSize              int           `yaml:"batch_size"               env:"FINETUNE_BATCH_SIZE"    env-default:"4"`
	LearningRateMultiplier float64       `yaml:"learning_rate_multiplier" env:"FINETUNE_LR_MULTIPLIER" env-default:"2.0"`
	PollInterval           time.Duration `yaml:"poll_interval"            env:"FINETUNE_POLL_INTERVAL" env-default:"60s"`
}

// DeployConfig holds hosting-platform settings for the chat interface.
type DeployConfig struct {
	HFToken      string `yaml:"hf_token"     env:"HF_TOKEN"`
	Organization string `yaml:"organization" env:"HF_ORGANIZATION"`
	Private      bool   `yaml:"private"      env:"HF_PRIVATE" env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
