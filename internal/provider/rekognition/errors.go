package rekognition

import "errors"

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrUnsupportedImage indicates the image could not be decoded to obtain its dimensions
	ErrUnsupportedImage = errors.New("unsupported or corrupt image format")
)
