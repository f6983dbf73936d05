package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"youtube-automation/pkg/llm"
)

const scriptExcerptLen = 200

type metadataWriter struct {
	client *llm.Client
	model  string
}

func NewMetadataWriter(client *llm.Client, model string) MetadataWriter {
	return &metadataWriter{
		client: client,
		model:  model,
	}
}

func (m *metadataWriter) WriteMetadata(ctx context.Context, topic, script string) (*Metadata, error) {
	excerpt := script
	if len(excerpt) > scriptExcerptLen {
		excerpt = excerpt[:scriptExcerptLen] + "..."
	}

	prompt := fmt.Sprintf(`Create YouTube metadata for this motivational video:

Topic: %s
Script: %s

Generate:
1. Title (max 60 chars, clickable, emotional)
2. Description (150-200 words, SEO-rich, with timestamps)
3. 15 relevant tags
4. 5 hashtags

Format as JSON with keys: title, description, tags, hashtags`, topic, excerpt)

	content, err := m.client.Chat(ctx, m.model, prompt, 0.7)
	if err != nil {
		return nil, fmt.Errorf("generate metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal([]byte(llm.CleanJSON(content)), &metadata); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w", err)
	}
	if metadata.Title == "" {
		return nil, fmt.Errorf("metadata missing title")
	}

	return &metadata, nil
}
