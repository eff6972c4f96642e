package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewGeminiClient(config.AIConfig{
		APIKey:            "test-key",
		Model:             "gemini-test",
		BaseURL:           server.URL,
		RequestTimeoutSec: 5,
	}, zap.NewNop())
	return client, server
}

func chunkJSON(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func TestAvailableRequiresKey(t *testing.T) {
	client := NewGeminiClient(config.AIConfig{}, zap.NewNop())
	if client.Available() {
		t.Fatal("client without key must not be available")
	}
	if _, err := client.CreateSession("persona", nil); err != ErrUnavailable {
		t.Fatalf("CreateSession err = %v, want ErrUnavailable", err)
	}
	if _, err := client.GenerateOnce(context.Background(), "p", "i"); err != ErrUnavailable {
		t.Fatalf("GenerateOnce err = %v, want ErrUnavailable", err)
	}
}

func TestGenerateOnceParsesResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in %s", r.URL)
		}
		fmt.Fprint(w, chunkJSON("análise do período"))
	})

	text, err := client.GenerateOnce(context.Background(), "prompt", "instruction")
	if err != nil {
		t.Fatalf("GenerateOnce: %v", err)
	}
	if text != "análise do período" {
		t.Fatalf("text = %q", text)
	}
}

func TestGenerateOnceSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := client.GenerateOnce(context.Background(), "p", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "quota exceeded") {
		t.Fatalf("err = %q", got)
	}
}

func TestStreamSendParsesSSEAndCommitsHistory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", chunkJSON("Ol"))
		fmt.Fprintf(w, "data: %s\n\n", chunkJSON("á!"))
		fmt.Fprint(w, ": keep-alive comment\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	session, err := client.CreateSession("persona", nil)
	if err != nil {
		t.Fatal(err)
	}
	stream, err := session.StreamSend(context.Background(), "oi")
	if err != nil {
		t.Fatalf("StreamSend: %v", err)
	}
	defer stream.Close()

	var collected string
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		collected += chunk.Text
	}
	if collected != "Olá!" {
		t.Fatalf("collected = %q", collected)
	}

	gs := session.(*geminiSession)
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if len(gs.history) != 2 {
		t.Fatalf("history = %+v", gs.history)
	}
	if gs.history[0].Role != RoleUser || gs.history[0].Text != "oi" {
		t.Fatalf("user turn = %+v", gs.history[0])
	}
	if gs.history[1].Role != RoleModel || gs.history[1].Text != "Olá!" {
		t.Fatalf("model turn = %+v", gs.history[1])
	}
}

func TestStreamSendEmptyStreamCommitsEmptyReply(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
	})

	session, err := client.CreateSession("persona", nil)
	if err != nil {
		t.Fatal(err)
	}
	stream, err := session.StreamSend(context.Background(), "oi")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("Next err = %v, want io.EOF", err)
	}
	gs := session.(*geminiSession)
	if len(gs.history) != 2 || gs.history[1].Text != "" {
		t.Fatalf("history = %+v", gs.history)
	}
}

func TestStreamSendHTTPErrorBeforeStream(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"forbidden","status":"PERMISSION_DENIED"}}`)
	})

	session, err := client.CreateSession("persona", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.StreamSend(context.Background(), "oi"); err == nil {
		t.Fatal("expected error")
	}
}
