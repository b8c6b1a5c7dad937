// Package genimage wraps the external image-generation service behind a
// small Generator contract.
package genimage

import (
	"context"

	"pipeline/internal/domain"
)

// Request describes one generation call: exactly one image per call.
type Request struct {
	Instructions domain.InstructionPair
	StyleID      domain.StyleID
	BatchID      string
	AspectRatio  string
}

// Image is the normalized result of a generation call. Ref is a provider
// identifier until a sink persists the bytes and substitutes a durable one.
type Image struct {
	Ref    string
	Format string
	Width  int
	Height int
	Data   []byte
}

// Generator is the contract implemented by all image providers. A failed
// call wraps domain.ErrGenerationFailed so the orchestrator can tell
// transport failures from quality failures.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Image, error)
}
