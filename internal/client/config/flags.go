package config

import (
	"flag"
	"os"
	"time"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API (default from Config)
//	-d string   path of the local credential store
//	-r string   redis address for the read cache; empty means in-memory
//	-i int      session watch interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.CredentialsDSN, "d", cfg.CredentialsDSN, "path of the local credential store")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for the read cache (empty: in-memory)")
	watchInterval := fs.Int("i", int(cfg.WatchInterval.Seconds()), "session watch interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.WatchInterval = time.Duration(*watchInterval) * time.Second
}
