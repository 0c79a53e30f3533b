package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"dayplan/internal/logging"
	"dayplan/internal/task"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini is a Parser backed by the Gemini generateContent API with a JSON
// response schema matching the task record.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// GeminiOption customizes a Gemini parser.
type GeminiOption func(*Gemini)

// WithBaseURL overrides the API base URL. Tests point this at a local server.
func WithBaseURL(url string) GeminiOption {
	return func(g *Gemini) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *Gemini) { g.client = client }
}

// NewGemini creates a Gemini-backed parser. The model is a resource name
// like "models/gemini-2.5-flash-lite".
func NewGemini(apiKey, model string, logger *slog.Logger, opts ...GeminiOption) *Gemini {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Request/response shapes for the generateContent endpoint.

type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature      float64         `json:"temperature"`
	ResponseMIMEType string          `json:"response_mime_type,omitempty"`
	ResponseSchema   json.RawMessage `json:"response_schema,omitempty"`
}

type genRequest struct {
	SystemInstruction *genContent  `json:"system_instruction,omitempty"`
	Contents          []genContent `json:"contents"`
	GenerationConfig  *genConfig   `json:"generationConfig,omitempty"`
}

type genResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
}

// Parse classifies one request into a task.
func (g *Gemini) Parse(ctx context.Context, text string, ref time.Time) (task.Task, error) {
	reqBody := genRequest{
		SystemInstruction: &genContent{
			Parts: []genPart{{Text: systemPrompt(ref)}},
		},
		Contents: []genContent{
			{Role: "user", Parts: []genPart{{Text: text}}},
		},
		GenerationConfig: &genConfig{
			Temperature:      0,
			ResponseMIMEType: "application/json",
			ResponseSchema:   taskSchema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to encode parser request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to build parser request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return task.Task{}, fmt.Errorf("parser call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to read parser response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return task.Task{}, fmt.Errorf("parser API error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var gr genResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return task.Task{}, fmt.Errorf("failed to decode parser response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return task.Task{}, fmt.Errorf("parser returned no candidates")
	}

	var raw strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		raw.WriteString(p.Text)
	}

	tk, err := decodeTask(raw.String())
	if err != nil {
		return task.Task{}, err
	}

	g.logger.Debug("parsed request",
		logging.Operation("parser.parse"),
		logging.Intent(string(tk.Intent)),
		slog.String("date", tk.Date))

	return tk, nil
}

// decodeTask decodes the model's JSON output into a validated task. Fenced
// or slightly malformed JSON is tolerated: fences are stripped first, and a
// failed decode is retried after running the text through jsonrepair.
func decodeTask(text string) (task.Task, error) {
	cleaned := extractJSON(text)

	var tk task.Task
	if err := json.Unmarshal([]byte(cleaned), &tk); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return task.Task{}, fmt.Errorf("failed to decode parser output: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &tk); err != nil {
			return task.Task{}, fmt.Errorf("failed to decode repaired parser output: %w", err)
		}
	}

	if err := tk.Validate(); err != nil {
		return task.Task{}, fmt.Errorf("parser produced an invalid task: %w", err)
	}
	return tk, nil
}

// extractJSON strips markdown code fences and surrounding prose from the
// model output, leaving the JSON object.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		var jsonLines []string
		inBlock := false
		for _, line := range strings.Split(text, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "```") {
				if inBlock {
					break
				}
				inBlock = true
				continue
			}
			if inBlock {
				jsonLines = append(jsonLines, line)
			}
		}
		if len(jsonLines) > 0 {
			return strings.Join(jsonLines, "\n")
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

var _ Parser = (*Gemini)(nil)
