package rekognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	// Registra os decodificadores usados para obter as dimensões do frame.
	_ "image/jpeg"
	_ "image/png"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/facestream-labs/facestream/internal/domain"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100

	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidParameter = "InvalidParameterException"
	errCodeInvalidImage     = "InvalidImageFormatException"
)

// DetectFacesAPI is the subset of the Rekognition client used by the detector
type DetectFacesAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Detector detecta rostos usando a API DetectFaces do AWS Rekognition.
// O Rekognition não expõe embeddings brutos, então a extração fica a
// cargo de outro provedor.
type Detector struct {
	api    DetectFacesAPI
	config Config
}

// NewDetector creates a Detector using the AWS default credential chain
func NewDetector(ctx context.Context, cfg Config) (*Detector, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Detector{
		api:    rekognition.NewFromConfig(awsCfg),
		config: cfg,
	}, nil
}

// NewDetectorWithAPI creates a Detector with a pre-built API client
func NewDetectorWithAPI(api DetectFacesAPI, cfg Config) *Detector {
	return &Detector{api: api, config: cfg}
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(img []byte) error {
	if len(img) < minImageSize {
		return fmt.Errorf("image too small (%d bytes, minimum %d)", len(img), minImageSize)
	}
	if len(img) > maxImageSize {
		return fmt.Errorf("image too large (%d bytes, maximum %d)", len(img), maxImageSize)
	}
	return nil
}

// DetectFaces detects faces in an image using AWS Rekognition.
// Rekognition returns bounding boxes relative to the frame size, so the
// image is decoded (header only) to convert them to pixel coordinates.
// Returns an empty slice if no faces are detected (not an error).
func (d *Detector) DetectFaces(ctx context.Context, img []byte) ([]domain.BoundingBox, error) {
	if err := validateImage(img); err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	dims, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("%w: %v", ErrUnsupportedImage, err))
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: img,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := d.api.DetectFaces(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeAccessDenied:
				return nil, domain.ErrDetectionFailed.WithError(ErrInvalidCredentials)
			case errCodeInvalidParameter, errCodeInvalidImage:
				return nil, domain.ErrInvalidImage.WithError(err)
			}
		}
		return nil, domain.ErrDetectionFailed.WithError(err)
	}

	boxes := make([]domain.BoundingBox, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil {
			continue
		}
		if detail.Confidence != nil && *detail.Confidence < d.config.MinConfidence {
			continue
		}

		box := relativeToPixels(detail.BoundingBox, dims.Width, dims.Height)
		if !box.Valid() {
			continue
		}
		boxes = append(boxes, box)
	}

	return boxes, nil
}

// relativeToPixels converte o bounding box relativo do Rekognition para
// coordenadas (top, right, bottom, left) em pixels, truncadas ao frame.
func relativeToPixels(bb *types.BoundingBox, width, height int) domain.BoundingBox {
	left := int(math.Round(float64(deref(bb.Left)) * float64(width)))
	top := int(math.Round(float64(deref(bb.Top)) * float64(height)))
	right := left + int(math.Round(float64(deref(bb.Width))*float64(width)))
	bottom := top + int(math.Round(float64(deref(bb.Height))*float64(height)))

	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}
	if right > width {
		right = width
	}
	if bottom > height {
		bottom = height
	}

	return domain.BoundingBox{Top: top, Right: right, Bottom: bottom, Left: left}
}

func deref(f *float32) float32 {
	if f == nil {
		return 0
	}
	return *f
}
