package commands

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"

	"github.com/harrybrwn/config"
	"github.com/harrybrwn/errs"
	"github.com/harrybrwn/hackbright/cmd/internal"
	"github.com/harrybrwn/hackbright/cmd/internal/opts"
	"github.com/harrybrwn/hackbright/cmd/internal/shell"
	"github.com/harrybrwn/hackbright/db"
	"github.com/harrybrwn/hackbright/tracker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// All returns all the commands.
func All(globals *opts.Global, log logrus.FieldLogger) []*cobra.Command {
	log = orDiscard(log)
	cmds := make([]*cobra.Command, 0, len(shell.Commands)+2)
	for _, c := range shell.Commands {
		cmds = append(cmds, newTrackerCmd(c, globals, log))
	}
	return append(cmds, newSchemaCmd(), newConfigCmd())
}

// Shell runs the interactive command loop.
func Shell(globals *opts.Global, log logrus.FieldLogger) func(*cobra.Command, []string) error {
	log = orDiscard(log)
	return func(cmd *cobra.Command, args []string) error {
		return WithTracker(cmd.Context(), globals, log, func(t *tracker.Tracker) error {
			sh := shell.New(t)
			sh.In = cmd.InOrStdin()
			sh.Out = cmd.OutOrStdout()
			sh.Err = cmd.ErrOrStderr()
			sh.Color = !globals.NoColor
			sh.Log = log
			if Conf.Prompt != "" {
				sh.Prompt = Conf.Prompt
			}
			return sh.Run(cmd.Context())
		})
	}
}

// WithTracker opens the database, runs fn and closes the database again.
// A database that cannot be reached is reported as a connection error.
func WithTracker(
	ctx context.Context,
	globals *opts.Global,
	log logrus.FieldLogger,
	fn func(*tracker.Tracker) error,
) (err error) {
	gw, err := db.Open(ctx, globals.Database, log)
	if err != nil {
		return internal.Errorf(internal.ExitConnect, "%v", err)
	}
	defer func() {
		if e := gw.Close(); e != nil {
			log.WithError(e).Error("could not close database")
			if err == nil {
				err = e
			}
		}
	}()
	return fn(tracker.New(gw))
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

func newTrackerCmd(c *shell.Command, globals *opts.Global, log logrus.FieldLogger) *cobra.Command {
	return &cobra.Command{
		Use:   c.Usage(),
		Short: c.Short,
		Args:  cobra.ExactArgs(len(c.Args)),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.WithFields(logrus.Fields{"command": c.Name, "args": args}).Info("running command")
			return WithTracker(cmd.Context(), globals, log, func(t *tracker.Tracker) error {
				return c.Exec(cmd.Context(), t, cmd.OutOrStdout(), args)
			})
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema the tracker expects",
		Long: `Print the reference schema. The tracker never creates tables
itself; use this to set up a new database, for example:

    $ hackbright schema | psql hackbright`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema)
			return err
		},
	}
}

func newConfigCmd() *cobra.Command {
	var file, edit bool
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"conf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f := config.FileUsed()
			if file {
				cmd.Println(f)
				return nil
			}
			if edit {
				if f == "" {
					return errs.New("no config file found")
				}
				editor := Conf.Editor
				if editor == "" {
					editor = os.Getenv("EDITOR")
				}
				if editor == "" {
					return errs.New("no editor set (set 'editor' in the config file or $EDITOR)")
				}
				ex := exec.Command(editor, f)
				ex.Stdout, ex.Stderr, ex.Stdin = os.Stdout, os.Stderr, os.Stdin
				return ex.Run()
			}
			raw, err := yaml.Marshal(Conf)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "edit the config file")
	cmd.Flags().BoolVarP(&file, "file", "f", false, "print the config file path")
	return cmd
}
