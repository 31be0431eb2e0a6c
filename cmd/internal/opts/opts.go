package opts

import "github.com/spf13/pflag"

// Global holds the flags shared by every command.
type Global struct {
	// Database is the url of the tracker database.
	Database string
	NoColor  bool
	Verbose  bool
}

// AddToFlagSet registers the global flags.
func (g *Global) AddToFlagSet(set *pflag.FlagSet) {
	set.StringVar(&g.Database, "db", g.Database, "database url (postgres://, libsql://, sqlite:// or a file path)")
	set.BoolVar(&g.NoColor, "nocolor", g.NoColor, "turn off colors")
	set.BoolVarP(&g.Verbose, "verbose", "v", g.Verbose, "log every statement to the log file")
}
