package constant

type VideoStatus string

const (
	VideoStatusPending  VideoStatus = "pending"
	VideoStatusReady    VideoStatus = "ready"
	VideoStatusUploaded VideoStatus = "uploaded"
	VideoStatusFailed   VideoStatus = "failed"
)

func (s VideoStatus) String() string {
	return string(s)
}

// Stage is one named step of the fixed production sequence.
type Stage string

const (
	StageSourcing           Stage = "sourcing"
	StageScriptGeneration   Stage = "script_generation"
	StageAudioGeneration    Stage = "audio_generation"
	StageVideoGeneration    Stage = "video_generation"
	StageMetadataGeneration Stage = "metadata_generation"
	StageScheduling         Stage = "scheduling"
	StageCompleted          Stage = "completed"
)

func (s Stage) String() string {
	return string(s)
}

// StageOrder lists every stage in execution order, terminal marker included.
var StageOrder = []Stage{
	StageSourcing,
	StageScriptGeneration,
	StageAudioGeneration,
	StageVideoGeneration,
	StageMetadataGeneration,
	StageScheduling,
	StageCompleted,
}

var stageProgress = map[Stage]int{
	StageSourcing:           0,
	StageScriptGeneration:   20,
	StageAudioGeneration:    40,
	StageVideoGeneration:    60,
	StageMetadataGeneration: 80,
	StageScheduling:         90,
	StageCompleted:          100,
}

// Progress returns the completion checkpoint reached once the stage has finished.
func (s Stage) Progress() int {
	return stageProgress[s]
}

type LogStatus string

const (
	LogStatusCompleted LogStatus = "completed"
	LogStatusFailed    LogStatus = "failed"
)

type ContentSource string

const (
	ContentSourceTrending ContentSource = "trending"
	ContentSourceCustom   ContentSource = "custom"
)

func (c ContentSource) String() string {
	return string(c)
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
