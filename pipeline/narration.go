package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"youtube-automation/pkg/llm"
)

const elevenLabsVoiceURL = "https://api.elevenlabs.io/v1/text-to-speech/%s"
const defaultElevenLabsVoice = "21m00Tcm4TlvDq8ikWAM"

// narrationSynthesizer uses ElevenLabs as the primary voice provider and
// falls back to OpenAI TTS when no ElevenLabs key is configured.
type narrationSynthesizer struct {
	elevenLabsKey string
	voice         string
	fallback      *llm.Client
	httpClient    *http.Client
}

func NewNarrationSynthesizer(elevenLabsKey, voice string, fallback *llm.Client) NarrationSynthesizer {
	if voice == "" {
		voice = defaultElevenLabsVoice
	}
	return &narrationSynthesizer{
		elevenLabsKey: elevenLabsKey,
		voice:         voice,
		fallback:      fallback,
		httpClient:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (n *narrationSynthesizer) Synthesize(ctx context.Context, script, outputPath string) (string, error) {
	if n.elevenLabsKey == "" {
		zerolog.Ctx(ctx).Info().Msg("no ElevenLabs key configured, using OpenAI TTS")
		if err := n.fallback.Speech(ctx, "tts-1-hd", "onyx", script, outputPath); err != nil {
			return "", fmt.Errorf("openai tts: %w", err)
		}
		return outputPath, nil
	}

	if err := n.synthesizeElevenLabs(ctx, script, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

type elevenLabsRequest struct {
	Text          string                 `json:"text"`
	ModelId       string                 `json:"model_id"`
	VoiceSettings map[string]interface{} `json:"voice_settings"`
}

func (n *narrationSynthesizer) synthesizeElevenLabs(ctx context.Context, script, outputPath string) error {
	reqBody := elevenLabsRequest{
		Text:    script,
		ModelId: "eleven_monolingual_v1",
		VoiceSettings: map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf(elevenLabsVoiceURL, n.voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", n.elevenLabsKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elevenlabs failed: status %d: %s", resp.StatusCode, string(respBytes))
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}
