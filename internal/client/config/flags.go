package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/bfadmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL override
//	-s          secure origin mode
//	-d string   data directory
//	-t int      request timeout in seconds
//
// Only the flags handled here are parsed; see flagx.FilterArgs. Values of
// flags that were not passed are left as the earlier sources set them.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t"}, "-s")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	backend := fs.String("a", "", "backend base URL")
	secure := fs.Bool("s", false, "act on behalf of a secure (https) origin")
	dataDir := fs.String("d", "", "data directory for the session database")
	timeout := fs.Int("t", 0, "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.BackendURL = *backend
		case "s":
			cfg.SecureOrigin = *secure
		case "d":
			cfg.DataDir = *dataDir
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
