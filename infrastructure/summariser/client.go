// Package summariser implements domain/manifest.ThemeSummariser against
// an external chat model via github.com/sashabaranov/go-openai, the
// client library the teacher's original_source lineage (soundprediction's
// predicato, per other_examples) uses alongside a Neo4j driver for the
// same "knowledge graph + LLM theme naming" shape this package adapts.
package summariser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"backend2/domain/manifest"
)

const defaultModel = "gpt-4o-mini"

// Client requests 2-4 word theme names for the top-ranked manifest
// communities (spec §4.6 step 5). It implements domain/manifest.ThemeSummariser.
type Client struct {
	openai *openai.Client
	model  string
	logger *zap.Logger
}

// New constructs a Client. model may be empty, in which case defaultModel
// is used.
func New(apiKey, model string, logger *zap.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{openai: openai.NewClient(apiKey), model: model, logger: logger}
}

// SummariseThemes asks the model for a short theme name per community.
// The caller (domain/manifest.aggregateCommunities) already bounds this
// call with a timeout context and falls back to the default keyword
// summary on any error, so this method only needs to report failures
// honestly, never to retry or degrade on its own.
func (c *Client) SummariseThemes(ctx context.Context, briefs []manifest.CommunityBrief) (map[int]string, error) {
	if len(briefs) == 0 {
		return map[int]string{}, nil
	}

	prompt := buildPrompt(briefs)
	resp, err := c.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You name thematic clusters in a memory graph. " +
					"Reply with strict JSON only: an object mapping each community id " +
					"(as a string) to a theme name of 2 to 4 words. No other text.",
			},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("summariser: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("summariser: empty response")
	}

	return parseThemes(resp.Choices[0].Message.Content)
}

func buildPrompt(briefs []manifest.CommunityBrief) string {
	var b strings.Builder
	for _, brief := range briefs {
		fmt.Fprintf(&b, "community %d:\n", brief.CommunityID)
		fmt.Fprintf(&b, "  types: %s\n", strings.Join(brief.ItemTypes, ", "))
		fmt.Fprintf(&b, "  tags: %s\n", strings.Join(brief.TopTags, ", "))
		for _, preview := range brief.ItemPreviews {
			fmt.Fprintf(&b, "  - %s\n", preview)
		}
	}
	return b.String()
}

func parseThemes(content string) (map[int]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw map[string]string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("summariser: decode theme response: %w", err)
	}

	themes := make(map[int]string, len(raw))
	for key, theme := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		themes[id] = theme
	}
	return themes, nil
}
