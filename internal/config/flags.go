package config

import (
	"flag"
	"time"

	"github.com/dlebedev/checkride/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string     local data directory
//	-dsn string   Postgres DSN of the backend document store
//	-b string     S3 bucket for inspection assets
//	-e string     S3 base endpoint (MinIO etc.)
//	-r string     S3 region
//	-t int        resume threshold in seconds
//
// The function filters args to only include the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{
		"-d", "--d",
		"-dsn", "--dsn",
		"-b", "--b",
		"-e", "--e",
		"-r", "--r",
		"-t", "--t",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "backend Postgres DSN")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for inspection assets")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3Region, "r", cfg.S3Region, "S3 region")
	resumeThreshold := fs.Int("t", int(cfg.ResumeThreshold.Seconds()), "resume threshold (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only apply -t when given; round-tripping the default through whole
	// seconds would truncate a sub-second threshold set via JSON
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.ResumeThreshold = time.Duration(*resumeThreshold) * time.Second
		}
	})
}
