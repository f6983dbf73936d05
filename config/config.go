package config

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

// Config is built once at startup and passed by reference into every
// component. There is no package level client state.
type Config struct {
	MinIOBucket string        `yaml:"minio_bucket"`
	App         App           `yaml:"app"`
	DB          *sql.DB       `yaml:"db"`
	Queue       *RabbitMQ     `yaml:"rabbitmq"`
	Storage     *minio.Client `yaml:"storage"`
	Server      Server        `yaml:"server"`
	Pipeline    Pipeline      `yaml:"pipeline"`
	Providers   Providers     `yaml:"providers"`
	Upload      Upload        `yaml:"upload"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Pipeline holds orchestrator settings. StageTimeout bounds every
// collaborator call; OutputDir is the root for generated artifacts.
type Pipeline struct {
	StageTimeout time.Duration `yaml:"stage_timeout"`
	OutputDir    string        `yaml:"output_dir"`
	UploadTimes  []string      `yaml:"upload_times"`
}

// Providers carries external service credentials and model choices.
type Providers struct {
	OpenAIKey       string `yaml:"openai_key"`
	OpenAIModel     string `yaml:"openai_model"`
	ScriptModel     string `yaml:"script_model"`
	ElevenLabsKey   string `yaml:"elevenlabs_key"`
	ElevenLabsVoice string `yaml:"elevenlabs_voice"`
	PexelsKey       string `yaml:"pexels_key"`
}

type Upload struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	CategoryId   string `yaml:"category_id"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
	if err != nil {
		return nil, err
	}

	rabbitmq := &RabbitMQ{
		Host:         viper.GetString("rabbitmq_host"),
		Port:         viper.GetInt("rabbitmq_port"),
		User:         viper.GetString("rabbitmq_user"),
		Pass:         viper.GetString("rabbitmq_pass"),
		Kind:         viper.GetString("rabbitmq_kind"),
		ExchangeName: viper.GetString("rabbitmq_exchange"),
	}

	minioClient, err := minio.New(viper.GetString("minio.url"), &minio.Options{
		Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	stageTimeout := viper.GetDuration("pipeline.stage_timeout")
	if stageTimeout == 0 {
		stageTimeout = 5 * time.Minute
	}
	outputDir := viper.GetString("pipeline.output_dir")
	if outputDir == "" {
		outputDir = "output"
	}
	uploadTimes := viper.GetStringSlice("pipeline.upload_times")
	if len(uploadTimes) == 0 {
		uploadTimes = []string{"09:00", "15:00", "19:00"}
	}

	return &Config{
		MinIOBucket: viper.GetString("minio.bucket"),
		App: App{
			Environment: viper.GetString("app.environment"),
			Host:        viper.GetString("app.host"),
			Protocol:    viper.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
			Workers:  viper.GetInt("server.workers"),
		},
		Pipeline: Pipeline{
			StageTimeout: stageTimeout,
			OutputDir:    outputDir,
			UploadTimes:  uploadTimes,
		},
		Providers: Providers{
			OpenAIKey:       viper.GetString("OPENAI_API_KEY"),
			OpenAIModel:     viper.GetString("providers.openai_model"),
			ScriptModel:     viper.GetString("providers.script_model"),
			ElevenLabsKey:   viper.GetString("ELEVENLABS_API_KEY"),
			ElevenLabsVoice: viper.GetString("providers.elevenlabs_voice"),
			PexelsKey:       viper.GetString("PEXELS_API_KEY"),
		},
		Upload: Upload{
			ClientID:     viper.GetString("YOUTUBE_CLIENT_ID"),
			ClientSecret: viper.GetString("YOUTUBE_CLIENT_SECRET"),
			RefreshToken: viper.GetString("YOUTUBE_REFRESH_TOKEN"),
			CategoryId:   viper.GetString("upload.category_id"),
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: minioClient,
	}, nil
}
