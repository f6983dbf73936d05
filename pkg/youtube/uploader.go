package youtube

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
	"youtube-automation/config"
)

// UploadInput carries everything the Data API needs for one scheduled upload.
type UploadInput struct {
	VideoPath   string
	Title       string
	Description string
	Tags        []string
	PublishAt   time.Time
}

// Uploader pushes finished videos to YouTube via the Data API v3.
type Uploader struct {
	cfg *config.Upload
}

func NewUploader(cfg *config.Upload) *Uploader {
	return &Uploader{cfg: cfg}
}

// Upload performs a scheduled upload and returns the YouTube video id.
func (u *Uploader) Upload(ctx context.Context, input UploadInput) (string, error) {
	client, err := u.oauthClient(ctx)
	if err != nil {
		return "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtubeapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("youtube service: %w", err)
	}

	categoryId := u.cfg.CategoryId
	if categoryId == "" {
		categoryId = "22"
	}

	video := &youtubeapi.Video{
		Snippet: &youtubeapi.VideoSnippet{
			Title:       input.Title,
			Description: input.Description,
			Tags:        input.Tags,
			CategoryId:  categoryId,
		},
		Status: &youtubeapi.VideoStatus{
			// Must stay private until the scheduled publish time.
			PrivacyStatus: "private",
			PublishAt:     input.PublishAt.UTC().Format(time.RFC3339),
		},
	}

	f, err := os.Open(input.VideoPath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("youtube_id", uploaded.Id).
		Str("title", input.Title).
		Time("publish_at", input.PublishAt).
		Msg("video uploaded")

	return uploaded.Id, nil
}

func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	if u.cfg.ClientID == "" || u.cfg.ClientSecret == "" || u.cfg.RefreshToken == "" {
		return nil, fmt.Errorf("youtube oauth credentials not configured")
	}

	conf := &oauth2.Config{
		ClientID:     u.cfg.ClientID,
		ClientSecret: u.cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtubeapi.YoutubeUploadScope, youtubeapi.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: u.cfg.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}
