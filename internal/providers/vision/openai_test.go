package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pipeline/internal/domain"
	"pipeline/internal/providers/genimage"
)

func chatReply(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestOpenAIEvaluatorRoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		body := `{"dimension_scores":{"typography":20,"composition":20,"style_compliance":15,"production":15},"flags":["low_contrast"],"notes":"raise contrast"}`
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatReply(body))
	}))
	defer ts.Close()

	eval, err := NewOpenAIEvaluator(OpenAIOptions{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewOpenAIEvaluator: %v", err)
	}
	img := &genimage.Image{Ref: "r", Format: "png", Data: []byte("png")}
	res, err := eval.Evaluate(context.Background(), img, textSpec())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Score != 70 {
		t.Fatalf("score = %d, want 70", res.Score)
	}
	if !res.Flags.Has(domain.FlagLowContrast) {
		t.Fatalf("flags = %v", res.Flags.Strings())
	}
	if res.Notes != "raise contrast" {
		t.Fatalf("notes = %q", res.Notes)
	}
}

func TestOpenAIEvaluatorUnparsableResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatReply("I cannot score this image."))
	}))
	defer ts.Close()

	eval, err := NewOpenAIEvaluator(OpenAIOptions{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewOpenAIEvaluator: %v", err)
	}
	img := &genimage.Image{Data: []byte("png")}
	if _, err := eval.Evaluate(context.Background(), img, textSpec()); !errors.Is(err, domain.ErrEvaluationFailed) {
		t.Fatalf("error = %v, want ErrEvaluationFailed", err)
	}
}

func TestOpenAIEvaluatorServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom"}}`)
	}))
	defer ts.Close()

	eval, err := NewOpenAIEvaluator(OpenAIOptions{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewOpenAIEvaluator: %v", err)
	}
	img := &genimage.Image{Data: []byte("png")}
	if _, err := eval.Evaluate(context.Background(), img, textSpec()); !errors.Is(err, domain.ErrEvaluationFailed) {
		t.Fatalf("error = %v, want ErrEvaluationFailed", err)
	}
}

func TestOpenAIEvaluatorRejectsEmptyImage(t *testing.T) {
	eval, err := NewOpenAIEvaluator(OpenAIOptions{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewOpenAIEvaluator: %v", err)
	}
	if _, err := eval.Evaluate(context.Background(), nil, textSpec()); !errors.Is(err, domain.ErrEvaluationFailed) {
		t.Fatalf("error = %v, want ErrEvaluationFailed", err)
	}
	if _, err := NewOpenAIEvaluator(OpenAIOptions{}); err == nil {
		t.Fatal("expected error when api key missing")
	}
}
