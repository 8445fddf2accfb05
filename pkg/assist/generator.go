// Package assist wraps a generative-AI text API for caption, topic and
// insight generation. Every method degrades to a deterministic templated
// placeholder when the API key is missing or the request fails, so callers
// are never blocked on the provider.
package assist

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
)

// Option configures a Generator.
type Option func(*Generator)

// WithBaseURL overrides the API base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(g *Generator) {
		g.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) {
		g.client = c
	}
}

// WithModel sets the model used for all requests.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// Generator calls a Gemini-style generateContent endpoint.
type Generator struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewGenerator creates a generator. An empty apiKey is valid: every method
// then answers from its fallback template.
func NewGenerator(apiKey string, opts ...Option) *Generator {
	g := &Generator{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com",
		model:   "gemini-2.5-flash",
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BrandProfile is the "Brand DNA" context injected into prompts.
type BrandProfile struct {
	Name           string
	Industry       string
	Description    string
	TargetAudience string
	ToneOfVoice    string
	ContentPillars []string
	AvoidTerms     string
	CustomHashtags string
}

// TopicSuggestion is one structured content idea.
type TopicSuggestion struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
}

// Caption writes a short social-media caption about topic in the brand's
// voice. extra carries an optional design/concept instruction.
func (g *Generator) Caption(ctx context.Context, topic string, brand BrandProfile, extra string) string {
	prompt := fmt.Sprintf(`Act as a senior social media manager specialized in short, persuasive copywriting.

BRAND CONTEXT:
%s

TASK:
Write a caption for Instagram/LinkedIn about: %q.
%s
RULES:
1. Be short and direct: at most 3 short paragraphs.
2. The first sentence must hook attention immediately.
3. Use line breaks for readability.
4. End with a clear, simple call to action.
5. Use 3 niche hashtags plus the brand's mandatory hashtags (if any).

Answer with the caption text only.`, brandContext(brand), topic, extraInstruction(extra))

	text, err := g.generate(ctx, []part{{Text: prompt}}, &generationConfig{Temperature: ptr(0.7)})
	if err != nil {
		g.logger.Warn("caption generation failed, using fallback", "error", err)
		return fallbackCaption(topic, brand)
	}
	return text
}

// CaptionFromImage writes a caption for a base64-encoded PNG image.
func (g *Generator) CaptionFromImage(ctx context.Context, imageBase64, imageContext string) string {
	prompt := fmt.Sprintf(`Analyze this image. Write a SHORT, creative Instagram caption.
Context: %q.
Rule: at most 2 sentences plus 3 hashtags. No cliches.`, imageContext)

	parts := []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: "image/png", Data: stripDataURL(imageBase64)}},
	}
	text, err := g.generate(ctx, parts, nil)
	if err != nil {
		g.logger.Warn("image caption generation failed, using fallback", "error", err)
		return fallbackImageCaption(imageContext)
	}
	return text
}

// SuggestTopics returns count structured content ideas for the brand,
// using a response schema so the provider answers with parseable JSON.
func (g *Generator) SuggestTopics(ctx context.Context, brand BrandProfile, count int) []TopicSuggestion {
	if count <= 0 {
		count = 3
	}
	prompt := fmt.Sprintf(`BRAND CONTEXT:
%s

Suggest %d post topics this brand should publish next. For each, give a
short title and a one-sentence rationale tied to the brand's content
pillars.`, brandContext(brand), count)

	cfg := &generationConfig{
		Temperature:      ptr(0.7),
		ResponseMIMEType: "application/json",
		ResponseSchema: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":     map[string]any{"type": "string"},
					"rationale": map[string]any{"type": "string"},
				},
				"required": []string{"title", "rationale"},
			},
		},
	}

	text, err := g.generate(ctx, []part{{Text: prompt}}, cfg)
	if err == nil {
		var suggestions []TopicSuggestion
		if jerr := json.Unmarshal([]byte(text), &suggestions); jerr == nil && len(suggestions) > 0 {
			return suggestions
		}
		err = fmt.Errorf("unparseable suggestion payload")
	}
	g.logger.Warn("topic suggestion failed, using fallback", "error", err)
	return fallbackTopics(brand, count)
}

// AnalyzeInsights turns a metrics description into two short strategic
// insights.
func (g *Generator) AnalyzeInsights(ctx context.Context, metricsDescription string) string {
	prompt := fmt.Sprintf(`Analyze this social media data: %s
Give 2 ultra-short strategic insights (max 10 words each), one per line,
each starting with "- ".`, metricsDescription)

	text, err := g.generate(ctx, []part{{Text: prompt}}, nil)
	if err != nil {
		g.logger.Warn("insight analysis failed, using fallback", "error", err)
		return fallbackInsights()
	}
	return text
}

// --- Wire types (Gemini generateContent) ---

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      *float64       `json:"temperature,omitempty"`
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Generator) generate(ctx context.Context, parts []part, cfg *generationConfig) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("api key not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error: status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty response text")
	}
	return text, nil
}

func brandContext(b BrandProfile) string {
	pillars := "Tips, News, Behind the scenes"
	if len(b.ContentPillars) > 0 {
		pillars = strings.Join(b.ContentPillars, ", ")
	}
	return fmt.Sprintf(`- Name: %s
- Industry: %s
- What it does: %s
- Target audience: %s
- Tone of voice: %s
- Content pillars: %s
- AVOID: %s
- Mandatory hashtags: %s`,
		b.Name,
		b.Industry,
		orDefault(b.Description, "Industry-leading company."),
		orDefault(b.TargetAudience, "General"),
		orDefault(b.ToneOfVoice, "Professional and friendly"),
		pillars,
		orDefault(b.AvoidTerms, "Excessive slang, long-winded text"),
		b.CustomHashtags,
	)
}

func extraInstruction(extra string) string {
	if extra == "" {
		return ""
	}
	return fmt.Sprintf("EXTRA DESIGN/CONCEPT INSTRUCTION: %q.\n", extra)
}

// stripDataURL drops a leading "data:...;base64," prefix if present.
func stripDataURL(s string) string {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		return s[i+1:]
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func ptr(f float64) *float64 {
	return &f
}
