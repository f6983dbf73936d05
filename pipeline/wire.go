package pipeline

import (
	"youtube-automation/config"
	"youtube-automation/pkg/llm"
)

// DefaultCollaborators wires the production stage collaborators from
// configuration.
func DefaultCollaborators(cfg *config.Config) Collaborators {
	chatClient := llm.New(cfg.Providers.OpenAIKey)

	sourcerModel := cfg.Providers.OpenAIModel
	if sourcerModel == "" {
		sourcerModel = "gpt-4o-mini"
	}
	scriptModel := cfg.Providers.ScriptModel
	if scriptModel == "" {
		scriptModel = "gpt-4o"
	}

	return Collaborators{
		Sourcer:   NewTopicSourcer(chatClient, sourcerModel),
		Writer:    NewScriptWriter(chatClient, scriptModel),
		Narrator:  NewNarrationSynthesizer(cfg.Providers.ElevenLabsKey, cfg.Providers.ElevenLabsVoice, chatClient),
		Assembler: NewVideoAssembler(cfg.Providers.PexelsKey),
		Metadata:  NewMetadataWriter(chatClient, sourcerModel),
		Scheduler: NewUploadScheduler(cfg.Pipeline.UploadTimes),
	}
}
