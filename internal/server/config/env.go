package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment and then
// overlays recognised variables onto config.
//
// The file is taken from -env; when absent, ".env" is used if it exists.
// Variables already set in the process environment win over the file.
// An explicitly requested file that cannot be read panics, like an
// unreadable JSON config.
func parseEnv(config *Config, args []string) {
	envFile := flagx.EnvFileFlags(args)
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.HTTPAddr = ":" + v
	}
	lookupString("HTTP_ADDR", &config.HTTPAddr)
	lookupString("GRPC_ADDR", &config.GRPCAddr)
	lookupString("DATABASE_URL", &config.DatabaseDSN)
	lookupString("JWT_SECRET", &config.SecretKey)
	lookupDuration("TOKEN_TTL", &config.TokenValidityDuration)
	lookupBool("COOKIE_SECURE", &config.CookieSecure)
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	lookupString("STORAGE_BACKEND", &config.StorageBackend)
	lookupString("UPLOAD_DIR", &config.UploadDir)
	lookupString("S3_ROOT_USER", &config.S3RootUser)
	lookupString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	lookupString("S3_BUCKET", &config.S3Bucket)
	lookupString("S3_REGION", &config.S3Region)
	lookupString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	lookupBool("DELETE_REQUIRES_IMAGE", &config.DeleteRequiresImage)
	lookupString("CHATBOT_URL", &config.ChatbotURL)
	lookupString("OPENAI_API_KEY", &config.ChatbotAPIKey)
	lookupString("CHATBOT_MODEL", &config.ChatbotModel)
	lookupString("LOG_LEVEL", &config.LogLevel)
	lookupDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func lookupBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	*dst = b
}

func lookupDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
