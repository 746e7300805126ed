package entity

import "errors"

var (
	ErrScreenNotFound     = errors.New("screen not found")
	ErrPermissionDenied   = errors.New("camera permission denied")
	ErrModelNotLoaded     = errors.New("model not loaded")
	ErrNoPreview          = errors.New("preview is not available")
	ErrInvalidModelConfig = errors.New("invalid model config")
)
