package vision

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
	"pipeline/internal/providers/llmjson"
)

// Evaluator scores a generated image against its style's rubric. A failed
// or unparsable call returns an error wrapping domain.ErrEvaluationFailed;
// the orchestrator downgrades that to a zero score with the unknown flag so
// one style's evaluation outage never blocks the batch.
type Evaluator interface {
	Evaluate(ctx context.Context, img *genimage.Image, spec domain.StyleSpec) (*domain.EvaluationResult, error)
}

const defaultEvalModel = "gpt-4o-mini"

// OpenAIOptions configures the vision evaluator.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIEvaluator runs the rubric prompt against a vision-capable chat model.
type OpenAIEvaluator struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIEvaluator validates the options and builds an evaluator.
func NewOpenAIEvaluator(opts OpenAIOptions) (*OpenAIEvaluator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("vision: openai api key is required")
	}
	model := opts.Model
	if model == "" {
		model = defaultEvalModel
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &OpenAIEvaluator{model: model, opts: reqOpts}, nil
}

// Evaluate scores one image. The image travels inline as a data URL.
func (e *OpenAIEvaluator) Evaluate(ctx context.Context, img *genimage.Image, spec domain.StyleSpec) (*domain.EvaluationResult, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: no image data", domain.ErrEvaluationFailed)
	}
	client := openai.NewClient(e.opts...)

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(buildPrompt(spec)),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL(img),
		}),
	}
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEvaluationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", domain.ErrEvaluationFailed)
	}

	payload, err := llmjson.Parse[evaluationPayload](resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrEvaluationFailed, err)
	}
	return scorePayload(spec, payload), nil
}

func dataURL(img *genimage.Image) string {
	format := img.Format
	if format == "" {
		format = "png"
	}
	return "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

var _ Evaluator = (*OpenAIEvaluator)(nil)
