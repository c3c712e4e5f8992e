package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/enterrahost/quickclone/internal/clone"
)

const usage = `Usage: quickclone [flags]

Flags:
  -d, -db <path>            SQLite database path (default: quickclone.sqlite3)
  -a, -addr <host:port>     listen address (default: :8080)
  -u, -user <name>          admin username on first run (default: admin)
  -l, -log <path>           log file path (default: no file, stdout/stderr only)
  -lang <tag>               interface language, en or sl (default: en)
  -status-policy <policy>   status of clones: draft or preserve (default: draft)
  -v, -verbose              also log debug records
  -h, -help                 show this help and exit
`

type config struct {
	DBPath    string
	Addr      string
	AdminUser string
	LogPath   string
	Lang      string
	Policy    clone.StatusPolicy
	Verbose   bool
}

func (c *config) logLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// parseFlags parses the command line. It returns flag.ErrHelp for -h.
func parseFlags(args []string, out io.Writer) (*config, error) {
	fs := flag.NewFlagSet("quickclone", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }

	c := &config{}
	stringFlag := func(p *string, value string, names ...string) {
		for _, n := range names {
			fs.StringVar(p, n, value, "")
		}
	}
	stringFlag(&c.DBPath, "quickclone.sqlite3", "db", "d")
	stringFlag(&c.Addr, ":8080", "addr", "a")
	stringFlag(&c.AdminUser, "admin", "user", "u")
	stringFlag(&c.LogPath, "", "log", "l")
	stringFlag(&c.Lang, "en", "lang")

	var policy string
	stringFlag(&policy, "draft", "status-policy")

	fs.BoolVar(&c.Verbose, "verbose", false, "")
	fs.BoolVar(&c.Verbose, "v", false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	var err error
	if c.Policy, err = clone.ParseStatusPolicy(policy); err != nil {
		return nil, err
	}
	return c, nil
}
