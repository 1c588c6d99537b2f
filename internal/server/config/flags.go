package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g. ":3002")
//	-g string        gRPC health bind address ("" disables it)
//	-d string        PostgreSQL DSN
//	-s string        JWT HMAC secret key
//	-t int           session token validity, minutes
//	-storage string  storage backend: local | s3
//	-uploads string  local upload directory
//	-u string        S3 root user
//	-p string        S3 root password
//	-b string        S3 bucket name
//	-r string        S3 region
//	-e string        S3 base endpoint
//	-l string        log level: debug | info | warn | error
//
// Only these flags are considered; everything else in args is ignored so
// -c/-config and -env (handled elsewhere) do not collide. A malformed value
// panics.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-storage", "-uploads", "-u", "-p", "-b", "-r", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")

	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "storage backend (local|s3)")
	fs.StringVar(&config.UploadDir, "uploads", config.UploadDir, "local upload directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t is in whole minutes; only apply it when given so sub-minute values
	// from env or JSON survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}
