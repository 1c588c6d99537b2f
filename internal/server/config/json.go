package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/staffkeeper/internal/flagx"
	"github.com/dmitrijs2005/staffkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// "24h"-style strings or integer nanoseconds. Only keys present in the file
// override the current values, so pointers distinguish "absent" from zero.
type JsonConfig struct {
	HTTPAddr              *string         `json:"http_addr"`
	GRPCAddr              *string         `json:"grpc_addr"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	CookieSecure          *bool           `json:"cookie_secure"`
	AllowedOrigins        []string        `json:"allowed_origins"`
	StorageBackend        *string         `json:"storage_backend"`
	UploadDir             *string         `json:"upload_dir"`
	S3RootUser            *string         `json:"s3_root_user"`
	S3RootPassword        *string         `json:"s3_root_password"`
	S3Bucket              *string         `json:"s3_bucket"`
	S3Region              *string         `json:"s3_region"`
	S3BaseEndpoint        *string         `json:"s3_base_endpoint"`
	DeleteRequiresImage   *bool           `json:"delete_requires_image"`
	ChatbotURL            *string         `json:"chatbot_url"`
	ChatbotAPIKey         *string         `json:"chatbot_api_key"`
	ChatbotModel          *string         `json:"chatbot_model"`
	LogLevel              *string         `json:"log_level"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config in args.
// Without the flag nothing is loaded. An unreadable or invalid file panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.JsonConfigFlags(args)

	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.DeleteRequiresImage != nil {
		config.DeleteRequiresImage = *c.DeleteRequiresImage
	}
	setString(&config.ChatbotURL, c.ChatbotURL)
	setString(&config.ChatbotAPIKey, c.ChatbotAPIKey)
	setString(&config.ChatbotModel, c.ChatbotModel)
	setString(&config.LogLevel, c.LogLevel)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
