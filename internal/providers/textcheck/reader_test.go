package textcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pipeline/internal/providers/genimage"
)

func ocrServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
}

func TestOpenAIReaderReturnsText(t *testing.T) {
	ts := ocrServer(t, "Acme\n")
	defer ts.Close()

	reader, err := NewOpenAIReader(OpenAIReaderOptions{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewOpenAIReader: %v", err)
	}
	got, err := reader.Read(context.Background(), &genimage.Image{Data: []byte("png")})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "Acme" {
		t.Fatalf("recognized = %q", got)
	}
}

func TestOpenAIReaderMapsNoneToEmpty(t *testing.T) {
	ts := ocrServer(t, "NONE")
	defer ts.Close()

	reader, err := NewOpenAIReader(OpenAIReaderOptions{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewOpenAIReader: %v", err)
	}
	got, err := reader.Read(context.Background(), &genimage.Image{Data: []byte("png")})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "" {
		t.Fatalf("recognized = %q, want empty", got)
	}
}
