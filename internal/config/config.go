// File: internal/config/config.go
package config

import (
	"time"
)

const (
	ConfigFileName = "config.yaml"
	ConfigDirName  = "kodoctl"

	EnvPrefix = "KODOCTL"
	// Credentials are only ever read from the environment (or a .env file)
	EnvAccessKey = "QN_ACCESS_TOKEN"
	EnvSecretKey = "QN_SECRET_TOKEN"

	DefaultProvider       = "kodo"
	DefaultDownloadExpiry = time.Hour
	DefaultCompressor     = "tar"
	DefaultLogLevel       = "info"
)

// GNU tar exits with 1 when a file changed while being archived; the bundle is still usable
var DefaultAcceptedExitCodes = []int{0, 1}

type CredentialsConfig struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type KodoConfig struct {
	UseHTTPS bool   `mapstructure:"use_https"`
	Region   string `mapstructure:"region"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region    string `mapstructure:"region"`
	PathStyle bool   `mapstructure:"path_style"`
}

type MinIOConfig struct {
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,hostname_port|hostname"`
	Region   string `mapstructure:"region"`
	Secure   bool   `mapstructure:"secure"`
}

type GCSConfig struct {
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

type DownloadConfig struct {
	Expiry time.Duration `mapstructure:"expiry" validate:"gt=0"`
}

type ArchiveConfig struct {
	Compressor        string `mapstructure:"compressor" validate:"oneof=tar native"`
	AcceptedExitCodes []int  `mapstructure:"accepted_exit_codes" validate:"min=1,dive,gte=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type Config struct {
	Provider    string            `mapstructure:"provider" validate:"required"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Kodo        KodoConfig        `mapstructure:"kodo"`
	S3          S3Config          `mapstructure:"s3"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	GCS         GCSConfig         `mapstructure:"gcs"`
	Download    DownloadConfig    `mapstructure:"download"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	Log         LogConfig         `mapstructure:"log"`
}
