package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	videoWidth  = 1920
	videoHeight = 1080
	videoFPS    = 60

	footageClipCount = 3

	subtitleWordsPerChunk = 5
	subtitleSecPerWord    = 0.4
)

// videoAssembler downloads stock footage from Pexels and composites it with
// the narration and burned-in subtitles via ffmpeg. Without footage it still
// produces an artifact over a static background.
type videoAssembler struct {
	pexelsKey  string
	httpClient *http.Client
}

func NewVideoAssembler(pexelsKey string) VideoAssembler {
	return &videoAssembler{
		pexelsKey:  pexelsKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (a *videoAssembler) Assemble(ctx context.Context, input AssembleInput) (string, error) {
	duration, err := probeAudioDuration(ctx, input.AudioPath)
	if err != nil {
		return "", fmt.Errorf("probe audio duration: %w", err)
	}

	tempDir := filepath.Join("temp", strings.TrimSuffix(filepath.Base(input.OutputPath), filepath.Ext(input.OutputPath)))
	defer os.RemoveAll(tempDir)
	if err := os.MkdirAll(tempDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	subtitlePath := filepath.Join(tempDir, "subtitles.srt")
	if err := writeSubtitles(input.Script, subtitlePath); err != nil {
		return "", fmt.Errorf("write subtitles: %w", err)
	}

	footage := a.downloadFootage(ctx, input.Topic, tempDir)

	if err := render(ctx, footage, input.AudioPath, subtitlePath, duration, input.OutputPath, tempDir); err != nil {
		return "", err
	}
	return input.OutputPath, nil
}

type pexelsResponse struct {
	Videos []struct {
		VideoFiles []struct {
			Link string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}

// downloadFootage fetches stock clips for the topic. Any failure degrades to
// the static-background fallback rather than failing the stage.
func (a *videoAssembler) downloadFootage(ctx context.Context, topic, tempDir string) []string {
	if a.pexelsKey == "" {
		zerolog.Ctx(ctx).Info().Msg("no Pexels key configured, using static background")
		return nil
	}

	searchURL := fmt.Sprintf("https://api.pexels.com/videos/search?query=%s&per_page=%d&orientation=landscape",
		url.QueryEscape(topic), footageClipCount)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", a.pexelsKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("pexels search failed, using static background")
		return nil
	}
	defer resp.Body.Close()

	var search pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("pexels response unreadable, using static background")
		return nil
	}

	var paths []string
	for i, video := range search.Videos {
		if len(video.VideoFiles) == 0 {
			continue
		}
		localPath := filepath.Join(tempDir, fmt.Sprintf("footage_%d.mp4", i))
		if err := a.downloadFile(ctx, video.VideoFiles[0].Link, localPath); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int("clip", i).Msg("footage download failed, skipping clip")
			continue
		}
		paths = append(paths, localPath)
	}

	zerolog.Ctx(ctx).Info().Int("clips", len(paths)).Msg("stock footage downloaded")
	return paths
}

func (a *videoAssembler) downloadFile(ctx context.Context, fileURL, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func render(ctx context.Context, footage []string, audioPath, subtitlePath string, duration float64, outputPath, tempDir string) error {
	subtitleFilter := fmt.Sprintf("subtitles=%s", strings.ReplaceAll(subtitlePath, "\\", "/"))

	var ffmpegArgs []string
	if len(footage) > 0 {
		concatPath := filepath.Join(tempDir, "concat_list.txt")
		var lines []string
		for _, clip := range footage {
			absPath, err := filepath.Abs(clip)
			if err != nil {
				return fmt.Errorf("resolve clip path: %w", err)
			}
			lines = append(lines, fmt.Sprintf("file '%s'", strings.ReplaceAll(absPath, "'", "'\\''")))
		}
		if err := os.WriteFile(concatPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
			return fmt.Errorf("write concat list: %w", err)
		}

		scaleFilter := fmt.Sprintf("scale=w=%d:h=%d:force_original_aspect_ratio=decrease,pad=w=%d:h=%d:x=(ow-iw)/2:y=(oh-ih)/2",
			videoWidth, videoHeight, videoWidth, videoHeight)

		ffmpegArgs = []string{
			"-stream_loop", "-1",
			"-f", "concat",
			"-safe", "0",
			"-i", concatPath,
			"-i", audioPath,
			"-vf", scaleFilter + "," + subtitleFilter,
			"-map", "0:v:0",
			"-map", "1:a:0",
		}
	} else {
		background := fmt.Sprintf("color=c=0x141428:s=%dx%d:r=%d", videoWidth, videoHeight, videoFPS)
		ffmpegArgs = []string{
			"-f", "lavfi",
			"-i", background,
			"-i", audioPath,
			"-vf", subtitleFilter,
		}
	}

	ffmpegArgs = append(ffmpegArgs,
		"-t", strconv.FormatFloat(duration, 'f', 3, 64),
		"-c:v", "libx264",
		"-preset", "medium",
		"-r", strconv.Itoa(videoFPS),
		"-c:a", "aac",
		"-shortest",
		"-y",
		outputPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", ffmpegArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg execution failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func probeAudioDuration(ctx context.Context, audioPath string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	).Output()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

// writeSubtitles chunks the script into timed captions, five words per cue at
// an assumed 0.4 seconds per word.
func writeSubtitles(script, outputPath string) error {
	words := strings.Fields(script)
	var sb strings.Builder

	cue := 1
	for i := 0; i < len(words); i += subtitleWordsPerChunk {
		end := i + subtitleWordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		start := float64(i) * subtitleSecPerWord
		stop := float64(end) * subtitleSecPerWord

		sb.WriteString(strconv.Itoa(cue) + "\n")
		sb.WriteString(srtTimestamp(start) + " --> " + srtTimestamp(stop) + "\n")
		sb.WriteString(strings.Join(words[i:end], " ") + "\n\n")
		cue++
	}

	return os.WriteFile(outputPath, []byte(sb.String()), 0644)
}

func srtTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
