package provider

import (
	"context"
	"fmt"

	"github.com/facestream-labs/facestream/internal/config"
	"github.com/facestream-labs/facestream/internal/provider/deepface"
	"github.com/facestream-labs/facestream/internal/provider/mock"
	"github.com/facestream-labs/facestream/internal/provider/rekognition"
)

// Type defines supported provider backends
type Type string

const (
	// TypeDeepFace is the DeepFace sidecar (local, detection + extraction)
	TypeDeepFace Type = "deepface"
	// TypeRekognition uses AWS Rekognition for detection and the DeepFace
	// sidecar for extraction (Rekognition does not expose raw embeddings)
	TypeRekognition Type = "rekognition"
	// TypeMock is the deterministic in-process provider for dev and tests
	TypeMock Type = "mock"
)

// New creates the detector and extractor pair selected by configuration
//
// Environment variables:
//   - PROVIDER_TYPE: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID: AWS credentials (via AWS SDK credential chain)
//   - AWS_SECRET_ACCESS_KEY: AWS credentials (via AWS SDK credential chain)
func New(ctx context.Context, cfg *config.Config) (Detector, Extractor, error) {
	switch Type(cfg.ProviderType) {
	case TypeDeepFace, "":
		p := newDeepFaceProvider(cfg)
		return p, p, nil

	case TypeRekognition:
		detector, err := rekognition.NewDetector(ctx, rekognition.Config{
			Region:        cfg.AWSRegion,
			MinConfidence: rekognition.DefaultConfig().MinConfidence,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create rekognition detector: %w", err)
		}
		// O Rekognition só detecta; o DeepFace segue responsável pelos embeddings.
		return detector, newDeepFaceProvider(cfg), nil

	case TypeMock:
		p := mock.New(cfg.EmbeddingDimension)
		return p, p, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.ProviderType, TypeDeepFace, TypeRekognition, TypeMock)
	}
}

func newDeepFaceProvider(cfg *config.Config) *deepface.Provider {
	deepfaceConfig := deepface.DefaultConfig()
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}
	return deepface.NewProvider(deepfaceConfig)
}

// Compile-time checks that each backend satisfies the expected ports.
var (
	_ Provider = (*deepface.Provider)(nil)
	_ Provider = (*mock.Provider)(nil)
	_ Detector = (*rekognition.Detector)(nil)
)
