package deepface

import "errors"

var (
	ErrDeepFaceUnavailable = errors.New("deepface service unavailable")
	ErrInvalidResponse     = errors.New("invalid response from deepface")
	ErrNoFaceInResponse    = errors.New("no face data in deepface response")
)
