package domain

import "errors"

var (
	ErrInvalidBrand     = errors.New("invalid brand context")
	ErrGenerationFailed = errors.New("image generation failed")
	ErrEvaluationFailed = errors.New("evaluation failed")
	ErrTextReadFailed   = errors.New("text recognition failed")
	ErrRewriteFailed    = errors.New("instruction rewrite failed")
)
