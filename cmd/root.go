package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/harrybrwn/config"
	"github.com/harrybrwn/errs"
	"github.com/harrybrwn/hackbright/cmd/commands"
	"github.com/harrybrwn/hackbright/cmd/internal"
	"github.com/harrybrwn/hackbright/cmd/internal/opts"
	"github.com/harrybrwn/hackbright/pkg/term"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var version string

// Logger is the log file for the cmd package
var Logger = &lumberjack.Logger{
	Filename:   filepath.Join(os.TempDir(), "hackbright.log"),
	MaxSize:    25,  // megabytes
	MaxBackups: 10,  // number of spare files
	MaxAge:     365, // days
	Compress:   false,
}

// Stop will print to stderr and exit with the error's
// exit code or status 1
func Stop(message interface{}) {
	log.Printf("%v\n", message)
	fmt.Fprintf(os.Stderr, "%s %v\n", label("Error:"), message)
	switch msg := message.(type) {
	case *internal.Error:
		os.Exit(msg.Code)
	default:
		os.Exit(internal.ExitFailure)
	}
}

// Execute will execute the root comand on the cli
func Execute() (err error) {
	log.SetOutput(Logger)

	config.SetFilename("config.yml")
	config.SetType("yaml")
	config.AddPath("$HACKBRIGHT_CONFIG")
	config.AddDefaultDirs("hackbright")
	config.SetConfig(commands.Conf)

	err = config.ReadConfigFile()
	switch err {
	case nil:
		break
	case config.ErrNoConfigDir, config.ErrNoConfigFile:
		log.Println(err)
	default:
		return internal.Errorf(internal.ExitConfig, "could not read config: %v", err)
	}

	configfile := config.FileUsed()
	if configfile != "" {
		Logger.Filename = filepath.Join(filepath.Dir(configfile), "logs", "hackbright.log")
	}
	logger := newLogger(commands.Conf.LogLevel)

	globalFlags := opts.Global{Database: databaseURL()}
	root := &cobra.Command{
		Use:           "hackbright [command]",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
		Short:         "Command line front-end for the Hackbright project tracker.",
		Long: `Look up students, projects and grades in the project tracker
database. With no command, hackbright reads commands from standard input
until 'quit' is entered (type 'help' at the prompt for a list).`,
		Args: cobra.NoArgs,
		RunE: commands.Shell(&globalFlags, logger),
		PersistentPreRun: func(*cobra.Command, []string) {
			rootPreRun(&globalFlags, logger)
		},
	}
	globalFlags.AddToFlagSet(root.PersistentFlags())

	root.SetUsageTemplate(commandTemplate)
	root.AddCommand(append(
		commands.All(&globalFlags, logger),
		completionCmd,
	)...)
	return root.ExecuteContext(context.Background())
}

func rootPreRun(globals *opts.Global, logger *logrus.Logger) {
	if globals.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	noColor = !colorEnabled(os.Stderr, globals)
	if !colorEnabled(os.Stdout, globals) {
		globals.NoColor = true
	}
	logger.WithField("config", config.FileUsed()).Debug("starting")
}

// databaseURL picks the database url from the environment, then the
// config file, then the default. The --db flag overrides all of them.
func databaseURL() string {
	if url := os.Getenv("HACKBRIGHT_DATABASE"); url != "" {
		return url
	}
	if url := commands.Conf.Database.URL; url != "" {
		return os.ExpandEnv(url)
	}
	return commands.DefaultDatabase
}

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.Out = Logger
	l.Formatter = &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithError(err).Warn("bad log level, using info")
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// noColor is decided before any flags are parsed so that Stop can
// use it for config errors. rootPreRun updates it.
var noColor = !term.IsTerminal(os.Stderr)

// colorEnabled reports whether output written to f should be colored.
func colorEnabled(f *os.File, globals *opts.Global) bool {
	return !globals.NoColor && term.IsTerminal(f)
}

func label(s string) string {
	if noColor {
		return s
	}
	return term.BoldRed(s)
}

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Print a completion script to stdout.",
	Long: `Use the completion command to generate a script for shell
completion. Note: for zsh you will need to use the command
'compdef _hackbright hackbright' after you source the generated script.`,
	Example:   "$ source <(hackbright completion zsh)",
	ValidArgs: []string{"zsh", "bash", "ps", "powershell", "fish"},
	Aliases:   []string{"comp"},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		root := cmd.Root()
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			return errors.New("no shell type given")
		}
		switch args[0] {
		case "zsh":
			return root.GenZshCompletion(out)
		case "ps", "powershell":
			return root.GenPowerShellCompletion(out)
		case "bash":
			return root.GenBashCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, false)
		}
		return errs.New("unknown shell type")
	},
}

var commandTemplate = `Usage:
{{if .Runnable}}
	{{.UseLine}}{{end}}{{if gt (len .Aliases) 0}}

Aliases:
	{{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
	{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
	{{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:

{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:

{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
	{{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
