package pipeline

import (
	"context"
	"time"
)

// TopicSourcer discovers a trending topic. Skipped when the caller supplies one.
type TopicSourcer interface {
	SourceTopic(ctx context.Context) (string, error)
}

// ScriptResult is a narration script plus its estimated spoken duration in
// seconds. The estimate is informational only.
type ScriptResult struct {
	Text              string
	EstimatedDuration float64
}

type ScriptWriter interface {
	WriteScript(ctx context.Context, topic string) (*ScriptResult, error)
}

// NarrationSynthesizer turns the script into a voiceover at outputPath and
// returns the path of the artifact it produced.
type NarrationSynthesizer interface {
	Synthesize(ctx context.Context, script, outputPath string) (string, error)
}

type AssembleInput struct {
	AudioPath  string
	Script     string
	Topic      string
	OutputPath string
}

// VideoAssembler composites footage, narration and subtitles into the final
// video. It must produce some artifact even without footage.
type VideoAssembler interface {
	Assemble(ctx context.Context, input AssembleInput) (string, error)
}

// Metadata is the SEO payload for one video. The orchestrator treats it as
// opaque except for the title/description pair the scheduler needs.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Hashtags    []string `json:"hashtags"`
}

type MetadataWriter interface {
	WriteMetadata(ctx context.Context, topic, script string) (*Metadata, error)
}

// Schedule is the planned upload slot. No upload happens during the run.
type Schedule struct {
	ScheduledTime time.Time
	Title         string
	Description   string
}

type UploadScheduler interface {
	Schedule(ctx context.Context, videoPath string, metadata *Metadata) (*Schedule, error)
}

// Collaborators groups the six external stage operations.
type Collaborators struct {
	Sourcer   TopicSourcer
	Writer    ScriptWriter
	Narrator  NarrationSynthesizer
	Assembler VideoAssembler
	Metadata  MetadataWriter
	Scheduler UploadScheduler
}
