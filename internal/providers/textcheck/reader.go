package textcheck

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"pipeline/internal/domain"
	"pipeline/internal/providers/genimage"
)

// Reader recognizes the text rendered into an image.
type Reader interface {
	Read(ctx context.Context, img *genimage.Image) (string, error)
}

const defaultReadModel = "gpt-4o-mini"

const readPrompt = "Transcribe every piece of text visible in this image, " +
	"exactly as written, preserving the order top to bottom. Reply with the " +
	"text only. If the image contains no text, reply with exactly NONE."

// OpenAIReaderOptions configures the OCR reader.
type OpenAIReaderOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIReader transcribes image text through a vision-capable chat model.
type OpenAIReader struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIReader validates the options and builds a reader.
func NewOpenAIReader(opts OpenAIReaderOptions) (*OpenAIReader, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("textcheck: openai api key is required")
	}
	model := opts.Model
	if model == "" {
		model = defaultReadModel
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &OpenAIReader{model: model, opts: reqOpts}, nil
}

// Read returns the recognized text, or "" when the model saw none.
func (r *OpenAIReader) Read(ctx context.Context, img *genimage.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("%w: no image data", domain.ErrTextReadFailed)
	}
	client := openai.NewClient(r.opts...)

	format := img.Format
	if format == "" {
		format = "png"
	}
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(readPrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
		}),
	}
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTextReadFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domain.ErrTextReadFailed)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if strings.EqualFold(text, "NONE") {
		return "", nil
	}
	return text, nil
}

var _ Reader = (*OpenAIReader)(nil)
