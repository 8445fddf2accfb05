package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiStub(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{map[string]any{"text": text}},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestCaption(t *testing.T) {
	server := apiStub(t, "Fresh drop! 🚀\n\n#fitness")
	defer server.Close()

	g := NewGenerator("test-key", WithBaseURL(server.URL))
	got := g.Caption(context.Background(), "new product", BrandProfile{Name: "Acme"}, "")
	assert.Equal(t, "Fresh drop! 🚀\n\n#fitness", got)
}

func TestCaption_FallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewGenerator("test-key", WithBaseURL(server.URL))
	got := g.Caption(context.Background(), "new product", BrandProfile{Industry: "Fitness"}, "")
	assert.Contains(t, got, "new product")
	assert.Contains(t, got, "#Fitness")
}

func TestCaption_FallbackWithoutKey(t *testing.T) {
	g := NewGenerator("")
	got := g.Caption(context.Background(), "launch", BrandProfile{}, "")
	assert.Contains(t, got, "launch")
	assert.Contains(t, got, "#News")
}

func TestSuggestTopics(t *testing.T) {
	payload := `[{"title":"Leg day myths","rationale":"Workouts pillar"},{"title":"Protein 101","rationale":"Nutrition pillar"}]`
	server := apiStub(t, payload)
	defer server.Close()

	g := NewGenerator("test-key", WithBaseURL(server.URL))
	got := g.SuggestTopics(context.Background(), BrandProfile{Name: "Acme"}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Leg day myths", got[0].Title)
}

func TestSuggestTopics_FallbackOnGarbage(t *testing.T) {
	server := apiStub(t, "this is not json")
	defer server.Close()

	g := NewGenerator("test-key", WithBaseURL(server.URL))
	got := g.SuggestTopics(context.Background(), BrandProfile{
		Name:           "Acme",
		ContentPillars: []string{"Workouts"},
	}, 2)
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Title, "Workouts")
}

func TestAnalyzeInsights_Fallback(t *testing.T) {
	g := NewGenerator("")
	got := g.AnalyzeInsights(context.Background(), "reach down 20%")
	assert.True(t, strings.HasPrefix(got, "- "))
}

func TestCaptionFromImage_StripsDataURL(t *testing.T) {
	var sawData string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					InlineData *struct {
						Data string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for _, p := range req.Contents[0].Parts {
			if p.InlineData != nil {
				sawData = p.InlineData.Data
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": "Nice shot."}}},
			}},
		})
	}))
	defer server.Close()

	g := NewGenerator("test-key", WithBaseURL(server.URL))
	got := g.CaptionFromImage(context.Background(), "data:image/png;base64,QUJD", "gym selfie")
	assert.Equal(t, "Nice shot.", got)
	assert.Equal(t, "QUJD", sawData, "data URL prefix must be stripped")
}
