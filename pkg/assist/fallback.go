package assist

import (
	"fmt"
	"strings"
)

// Deterministic placeholders used when the provider is unreachable or not
// configured. The calling UI treats them as first-class content, so they
// must be stable for a given input.

func fallbackCaption(topic string, brand BrandProfile) string {
	tag := strings.ReplaceAll(brand.Industry, " ", "")
	if tag == "" {
		tag = "News"
	}
	return fmt.Sprintf("🚀 %s\n\nSomething exciting is coming your way. Stay tuned!\n\n#%s #News", topic, tag)
}

func fallbackImageCaption(imageContext string) string {
	return fmt.Sprintf("A picture is worth a thousand words! 📸\n\n%s\n\n#InstaGood", imageContext)
}

func fallbackTopics(brand BrandProfile, count int) []TopicSuggestion {
	pillars := brand.ContentPillars
	if len(pillars) == 0 {
		pillars = []string{"Tips", "News", "Behind the scenes"}
	}
	out := make([]TopicSuggestion, 0, count)
	for i := 0; i < count; i++ {
		pillar := pillars[i%len(pillars)]
		out = append(out, TopicSuggestion{
			Title:     fmt.Sprintf("%s: %s", pillar, orDefault(brand.Name, "your brand")),
			Rationale: fmt.Sprintf("Keeps the %s pillar active this week.", strings.ToLower(pillar)),
		})
	}
	return out
}

func fallbackInsights() string {
	return "- Focus on visual posts\n- Publish more stories"
}
