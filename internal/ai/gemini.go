package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/config"
)

// GeminiClient talks to the Gemini REST API. Streaming uses the SSE variant
// of streamGenerateContent.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewGeminiClient builds a client from configuration. A client without an API
// key is still constructed so callers can probe Available().
func NewGeminiClient(cfg config.AIConfig, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.RequestTimeout()},
		logger:  logger,
	}
}

// Available reports whether a credential is configured.
func (g *GeminiClient) Available() bool {
	return g != nil && g.apiKey != ""
}

// CreateSession opens a conversational context. The session is held in
// memory only; a fresh client reconstructs it from persisted history.
func (g *GeminiClient) CreateSession(systemInstruction string, history []Turn) (Session, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}
	return &geminiSession{
		client:            g,
		systemInstruction: systemInstruction,
		history:           append([]Turn(nil), history...),
	}, nil
}

// GenerateOnce performs a single non-streaming generation.
func (g *GeminiClient) GenerateOnce(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if !g.Available() {
		return "", ErrUnavailable
	}
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if systemInstruction != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	resp, err := g.post(ctx, url, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	return parsed.text(), nil
}

func (g *GeminiClient) post(ctx context.Context, url string, body generateRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.httpc.Do(req)
}

type geminiSession struct {
	client            *GeminiClient
	systemInstruction string

	mu      sync.Mutex
	history []Turn
}

// StreamSend requests a token stream for the prompt. The user turn and the
// accumulated model reply are committed to the session history only when the
// stream completes cleanly.
func (s *geminiSession) StreamSend(ctx context.Context, prompt string) (Stream, error) {
	s.mu.Lock()
	contents := make([]content, 0, len(s.history)+1)
	for _, turn := range s.history {
		contents = append(contents, content{Role: string(turn.Role), Parts: []part{{Text: turn.Text}}})
	}
	s.mu.Unlock()
	contents = append(contents, content{Role: "user", Parts: []part{{Text: prompt}}})

	body := generateRequest{Contents: contents}
	if s.systemInstruction != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: s.systemInstruction}}}
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s",
		s.client.baseURL, s.client.model, s.client.apiKey)
	resp, err := s.client.post(ctx, url, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := readAPIError(resp)
		resp.Body.Close()
		return nil, err
	}

	return &sseStream{
		session: s,
		prompt:  prompt,
		body:    resp.Body,
		scanner: newSSEScanner(resp.Body),
	}, nil
}

func (s *geminiSession) commit(prompt, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Turn{Role: RoleUser, Text: prompt}, Turn{Role: RoleModel, Text: reply})
}

// sseStream decodes "data:" lines from the streaming endpoint into chunks.
type sseStream struct {
	session *geminiSession
	prompt  string
	body    io.ReadCloser
	scanner *bufio.Scanner

	accumulated strings.Builder
	done        bool
}

func (st *sseStream) Next() (Chunk, error) {
	if st.done {
		return Chunk{}, io.EOF
	}
	for st.scanner.Scan() {
		line := strings.TrimSpace(st.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var parsed generateResponse
		if err := json.Unmarshal([]byte(data), &parsed); err != nil {
			return Chunk{}, fmt.Errorf("decode stream chunk: %w", err)
		}
		text := parsed.text()
		st.accumulated.WriteString(text)
		return Chunk{Text: text}, nil
	}
	if err := st.scanner.Err(); err != nil {
		return Chunk{}, err
	}
	st.done = true
	st.session.commit(st.prompt, st.accumulated.String())
	return Chunk{}, io.EOF
}

func (st *sseStream) Close() error {
	return st.body.Close()
}

func newSSEScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	var b strings.Builder
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
	var parsed apiError
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("generation api %s: %s", resp.Status, parsed.Error.Message)
	}
	return fmt.Errorf("generation api %s", resp.Status)
}
