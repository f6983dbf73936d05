package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

// Store keeps generated artifacts under a local output directory and mirrors
// them to object storage. Names are derived from the video id so reruns never
// collide with unrelated runs.
type Store struct {
	outputDir string
	client    *minio.Client
	bucket    string
}

func NewStore(outputDir string, client *minio.Client, bucket string) *Store {
	return &Store{
		outputDir: outputDir,
		client:    client,
		bucket:    bucket,
	}
}

// AudioPath is the deterministic local destination for a video's narration.
func (s *Store) AudioPath(videoId uuid.UUID) string {
	return filepath.Join(s.outputDir, "audio", fmt.Sprintf("video_%s.mp3", videoId))
}

// VideoPath is the deterministic local destination for a video's final render.
func (s *Store) VideoPath(videoId uuid.UUID) string {
	return filepath.Join(s.outputDir, "videos", fmt.Sprintf("video_%s.mp4", videoId))
}

// EnsureDirs creates the artifact directories for a run.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{filepath.Join(s.outputDir, "audio"), filepath.Join(s.outputDir, "videos")} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

// Mirror uploads a finished artifact to object storage under videos/<id>/.
// A mirror failure is logged but never fails the run; the local file is the
// path of record.
func (s *Store) Mirror(ctx context.Context, videoId uuid.UUID, localPath, contentType string) {
	if s.client == nil || s.bucket == "" {
		return
	}

	objectName := filepath.Join("videos", videoId.String(), filepath.Base(localPath))
	objectName = strings.ReplaceAll(objectName, "\\", "/")

	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("object", objectName).Msg("failed to mirror artifact to object storage")
		return
	}
	zerolog.Ctx(ctx).Info().Str("object", objectName).Msg("artifact mirrored to object storage")
}
