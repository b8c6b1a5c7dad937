// Package rewrite implements the rewrite tier of instruction refinement: a
// language-model call that rewrites an instruction pair from scratch.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"pipeline/internal/domain"
	"pipeline/internal/instruction"
	"pipeline/internal/providers/llmjson"
)

const defaultModel = "gpt-4o-mini"

const systemPrompt = "You are a senior art director writing instructions for " +
	"an image-generation model that produces flat vector logo concepts. Given " +
	"a failing instruction pair and the structured reasons it failed, write a " +
	"fresh pair from scratch rather than patching the old one. Respond " +
	"strictly with JSON: {\"positive\":string,\"negative\":string}."

// Options configures the OpenAI rewriter.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIRewriter asks a chat model for a from-scratch instruction rewrite.
type OpenAIRewriter struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIRewriter validates the options and builds a rewriter.
func NewOpenAIRewriter(opts Options) (*OpenAIRewriter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("rewrite: openai api key is required")
	}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &OpenAIRewriter{model: model, opts: reqOpts}, nil
}

type rewritePayload struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

// Rewrite produces a fresh instruction pair for the final attempt.
func (r *OpenAIRewriter) Rewrite(ctx context.Context, req instruction.RewriteRequest) (domain.InstructionPair, error) {
	client := openai.NewClient(r.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserPrompt(req)),
		},
	})
	if err != nil {
		return domain.InstructionPair{}, fmt.Errorf("%w: %v", domain.ErrRewriteFailed, err)
	}
	if len(resp.Choices) == 0 {
		return domain.InstructionPair{}, fmt.Errorf("%w: empty choices", domain.ErrRewriteFailed)
	}

	payload, err := llmjson.Parse[rewritePayload](resp.Choices[0].Message.Content)
	if err != nil {
		return domain.InstructionPair{}, fmt.Errorf("%w: parse response: %v", domain.ErrRewriteFailed, err)
	}
	if strings.TrimSpace(payload.Positive) == "" {
		return domain.InstructionPair{}, fmt.Errorf("%w: empty positive instruction", domain.ErrRewriteFailed)
	}
	return domain.InstructionPair{
		Positive: strings.TrimSpace(payload.Positive),
		Negative: strings.TrimSpace(payload.Negative),
	}, nil
}

func buildUserPrompt(req instruction.RewriteRequest) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Style: %s (%s). Brand: %q", req.Style.ID, req.Style.Category, req.Brand.Normalized())
	if req.Brand.Aesthetic != "" {
		fmt.Fprintf(sb, ", aesthetic: %s", req.Brand.Aesthetic)
	}
	if len(req.Brand.Palette) > 0 {
		fmt.Fprintf(sb, ", palette: %s", strings.Join(req.Brand.Palette, ", "))
	}
	if req.ExpectedText != "" {
		fmt.Fprintf(sb, ". The image must carry the exact text %q", req.ExpectedText)
	}
	fmt.Fprintf(sb, ".\nFailing positive instruction: %s", req.Current.Positive)
	fmt.Fprintf(sb, "\nFailing negative instruction: %s", req.Current.Negative)
	if flags := req.Flags.Strings(); len(flags) > 0 {
		fmt.Fprintf(sb, "\nFailure flags: %s", strings.Join(flags, ", "))
	}
	if req.Notes != "" {
		fmt.Fprintf(sb, "\nReviewer notes: %s", req.Notes)
	}
	return sb.String()
}

var _ instruction.Rewriter = (*OpenAIRewriter)(nil)
