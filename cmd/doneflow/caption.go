package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/doneflow/doneflow/pkg/assist"
)

var (
	captionTopic  string
	captionClient string
	captionExtra  string
	topicCount    int
)

var captionCmd = &cobra.Command{
	Use:   "caption",
	Short: "Generate a caption for a topic",
	Long: `Generate a social-media caption using the configured AI provider.
When a client is given, its brand identity shapes the tone. Without an
API key a deterministic placeholder is produced instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		brand, generator := captionSetup()
		fmt.Println(generator.Caption(context.Background(), captionTopic, brand, captionExtra))
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Suggest post topics for a client",
	Run: func(cmd *cobra.Command, args []string) {
		brand, generator := captionSetup()
		for _, s := range generator.SuggestTopics(context.Background(), brand, topicCount) {
			fmt.Printf("- %s: %s\n", s.Title, s.Rationale)
		}
	},
}

// captionSetup loads the brand context (from the stored client, when one
// was named) and builds the generator.
func captionSetup() (assist.BrandProfile, *assist.Generator) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("Failed to load config", err)
	}

	var brand assist.BrandProfile
	if captionClient != "" {
		service, owner := newAgencyService()
		client, ok, err := service.Client(context.Background(), owner, captionClient)
		if err != nil {
			fatal("Failed to load client", err)
		}
		if !ok {
			fatal("Unknown client", fmt.Errorf("no client with id %q", captionClient))
		}
		brand = assist.BrandProfile{
			Name:           client.Name,
			Industry:       client.Industry,
			Description:    client.Description,
			TargetAudience: client.TargetAudience,
			ToneOfVoice:    client.ToneOfVoice,
			ContentPillars: client.ContentPillars,
			AvoidTerms:     client.AvoidTerms,
			CustomHashtags: client.CustomHashtags,
		}
	}

	opts := []assist.Option{assist.WithLogger(slog.Default())}
	if cfg.GeminiModel != "" {
		opts = append(opts, assist.WithModel(cfg.GeminiModel))
	}
	return brand, assist.NewGenerator(cfg.GeminiAPIKey, opts...)
}

func init() {
	rootCmd.AddCommand(captionCmd, topicsCmd)

	for _, cmd := range []*cobra.Command{captionCmd, topicsCmd} {
		cmd.Flags().StringVar(&captionClient, "client", "", "Client ID supplying the brand identity")
	}
	captionCmd.Flags().StringVar(&captionTopic, "topic", "", "What the caption is about")
	captionCmd.Flags().StringVar(&captionExtra, "instruction", "", "Extra design/concept instruction")
	captionCmd.MarkFlagRequired("topic")

	topicsCmd.Flags().IntVar(&topicCount, "count", 3, "Number of suggestions")
}
