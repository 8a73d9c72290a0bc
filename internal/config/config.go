package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"8000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Matching
	MatchThreshold      float64 `envconfig:"FACE_MATCH_THRESHOLD" default:"0.6"`
	ConfidenceThreshold float64 `envconfig:"FACE_CONFIDENCE_THRESHOLD" default:"0.85"`
	EmbeddingDimension  int     `envconfig:"EMBEDDING_DIMENSION" default:"128"`

	// Tracking
	IoUThreshold   float64 `envconfig:"IOU_THRESHOLD" default:"0.3"`
	MaxLostFrames  int     `envconfig:"MAX_LOST_FRAMES" default:"12"`
	SmoothingAlpha float64 `envconfig:"SMOOTHING_ALPHA" default:"0.3"`

	// Frame processing
	MaxFrameRate float64 `envconfig:"MAX_FRAME_RATE" default:"5"`
	MinFaceSize  int     `envconfig:"MIN_FACE_SIZE" default:"100"`

	// Gallery
	GalleryTTL time.Duration `envconfig:"GALLERY_TTL" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
