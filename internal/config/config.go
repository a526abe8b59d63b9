// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // how long finished progress records linger
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	ChatModel       string `yaml:"chat_model"`
	EmbeddingModel  string `yaml:"embedding_model"`
	TranscribeModel string `yaml:"transcribe_model"`
	SpeechModel     string `yaml:"speech_model"`
	SpeechVoice     string `yaml:"speech_voice"`
}

type IngestConfig struct {
	WorkDir      string `yaml:"work_dir"`      // where downloaded audio artifacts land
	TopicLimit   int    `yaml:"topic_limit"`   // max sources kept in topic mode
	ChunkTokens  int    `yaml:"chunk_tokens"`  // chunk size, in tokens
	ChunkOverlap int    `yaml:"chunk_overlap"` // overlap between adjacent chunks, in tokens
}

type VectorConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	CollectionPrefix string `yaml:"collection_prefix"`
}

type ImageConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

type StorageConfig struct {
	ChatLogDir string `yaml:"chat_log_dir"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Redis   RedisConfig   `yaml:"redis"`
	AI      AIConfig      `yaml:"ai"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Vector  VectorConfig  `yaml:"vector"`
	Image   ImageConfig   `yaml:"image"`
	Storage StorageConfig `yaml:"storage"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 24 * time.Hour
	}
	if c.AI.ChatModel == "" {
		c.AI.ChatModel = "gpt-4.1"
	}
	if c.AI.EmbeddingModel == "" {
		c.AI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.AI.TranscribeModel == "" {
		c.AI.TranscribeModel = "whisper-1"
	}
	if c.AI.SpeechModel == "" {
		c.AI.SpeechModel = "gpt-4o-mini-tts"
	}
	if c.AI.SpeechVoice == "" {
		c.AI.SpeechVoice = "alloy"
	}
	if c.Ingest.WorkDir == "" {
		c.Ingest.WorkDir = "./uploads"
	}
	if c.Ingest.TopicLimit == 0 {
		c.Ingest.TopicLimit = 3
	}
	if c.Ingest.ChunkTokens == 0 {
		c.Ingest.ChunkTokens = 500
	}
	if c.Ingest.ChunkOverlap == 0 {
		c.Ingest.ChunkOverlap = 100
	}
	if c.Vector.Host == "" {
		c.Vector.Host = "localhost"
	}
	if c.Vector.Port == 0 {
		c.Vector.Port = 6334
	}
	if c.Vector.CollectionPrefix == "" {
		c.Vector.CollectionPrefix = "owner_index_"
	}
	if c.Storage.ChatLogDir == "" {
		c.Storage.ChatLogDir = "./chatlogs"
	}
}

func (c *Config) validate() error {
	if c.Redis.URL == "" {
		return errors.New("config: redis.url is required")
	}
	if c.Ingest.ChunkOverlap >= c.Ingest.ChunkTokens {
		return fmt.Errorf("config: ingest.chunk_overlap (%d) must be smaller than ingest.chunk_tokens (%d)",
			c.Ingest.ChunkOverlap, c.Ingest.ChunkTokens)
	}
	// Transcription, embeddings and speech all ride on the OpenAI key;
	// Gemini only ever substitutes for the chat model.
	if !c.Runtime.Dev && c.AI.OpenAIKey == "" {
		return errors.New("config: ai.openai_key is required (or run with -dev)")
	}
	return nil
}
