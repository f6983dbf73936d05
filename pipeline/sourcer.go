package pipeline

import (
	"context"
	"fmt"
	"strings"

	"youtube-automation/pkg/llm"
)

var topicCategories = []string{
	"self-development", "personal growth", "communication skills",
	"productivity", "emotional intelligence", "career advancement",
	"mindset", "habits", "success", "confidence",
}

// topicSourcer asks the language model for trending ideas, then asks it to
// pick the one with the highest viral potential.
type topicSourcer struct {
	client *llm.Client
	model  string
}

func NewTopicSourcer(client *llm.Client, model string) TopicSourcer {
	return &topicSourcer{
		client: client,
		model:  model,
	}
}

func (s *topicSourcer) SourceTopic(ctx context.Context) (string, error) {
	ideasPrompt := fmt.Sprintf(`You are a content strategist for a motivational YouTube channel.

Generate 5 trending video topic ideas in these categories: %s.

For each topic, provide:
1. Core idea (one sentence)
2. Why it's trending
3. Target audience pain point

Format as JSON array with keys: idea, trend_reason, pain_point`, strings.Join(topicCategories, ", "))

	ideas, err := s.client.Chat(ctx, s.model, ideasPrompt, 0.8)
	if err != nil {
		return "", fmt.Errorf("search trending topics: %w", err)
	}

	selectPrompt := fmt.Sprintf(`From these topics, select the ONE with highest viral potential for a 60-second motivational video:

%s

Return only the core idea as a single sentence.`, ideas)

	topic, err := s.client.Chat(ctx, s.model, selectPrompt, 0.3)
	if err != nil {
		return "", fmt.Errorf("select best topic: %w", err)
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("sourcer returned an empty topic")
	}
	return topic, nil
}
