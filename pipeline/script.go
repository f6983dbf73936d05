package pipeline

import (
	"context"
	"fmt"
	"strings"

	"youtube-automation/pkg/llm"
)

// Narration is estimated at an average speaking rate of 150 words per minute.
const wordsPerMinute = 150.0

type scriptWriter struct {
	client *llm.Client
	model  string
}

func NewScriptWriter(client *llm.Client, model string) ScriptWriter {
	return &scriptWriter{
		client: client,
		model:  model,
	}
}

func (w *scriptWriter) WriteScript(ctx context.Context, topic string) (*ScriptResult, error) {
	prompt := fmt.Sprintf(`Create a 45-90 second motivational script about: %s

Requirements:
- Poetic, emotional, modern tone
- Punchy, retention-optimized
- NO clichés or overused phrases
- Safe for monetization
- Original voice and perspective
- Hook in first 3 seconds
- Clear call-to-action at end

Write ONLY the script, no titles or descriptions.`, topic)

	text, err := w.client.Chat(ctx, w.model, prompt, 0.9)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("script writer returned an empty script")
	}

	return &ScriptResult{
		Text:              text,
		EstimatedDuration: EstimateDuration(text),
	}, nil
}

// EstimateDuration returns the estimated spoken duration of a script in seconds.
func EstimateDuration(script string) float64 {
	words := len(strings.Fields(script))
	return float64(words) / wordsPerMinute * 60.0
}
