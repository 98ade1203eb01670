package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/inkpost/internal/app"
	"github.com/templui/inkpost/internal/config"
	"github.com/templui/inkpost/internal/logger"
	"github.com/templui/inkpost/internal/routes"
	"github.com/templui/inkpost/internal/view"
)

// runtime holds the lazily built application shared by all commands.
type runtime struct {
	cfg *config.Config
	app *app.App
}

func (r *runtime) config() (*config.Config, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	r.cfg = cfg
	return cfg, nil
}

func (r *runtime) App(ctx context.Context) (*app.App, error) {
	if r.app != nil {
		return r.app, nil
	}

	cfg, err := r.config()
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return nil, err
	}

	r.app = a
	return a, nil
}

func (r *runtime) Close() {
	if r.app != nil {
		if err := r.app.Close(); err != nil {
			slog.Error("failed to close app", "error", err)
		}
	}
	logger.Flush()
}

// NewRootCmd builds the command tree around rt.
func NewRootCmd(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "inkpost",
		Short:         "A small multi-user blog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(signUpCmd(rt))
	rootCmd.AddCommand(signInCmd(rt))
	rootCmd.AddCommand(signOutCmd(rt))
	rootCmd.AddCommand(whoamiCmd(rt))
	rootCmd.AddCommand(feedCmd(rt))
	rootCmd.AddCommand(PostsCmd(rt))
	rootCmd.AddCommand(CommentsCmd(rt))
	rootCmd.AddCommand(DBCmd(rt))

	return rootCmd
}

// Execute runs the CLI against os.Args.
func Execute() error {
	rt := &runtime{}
	defer rt.Close()

	rootCmd := NewRootCmd(rt)
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// navigate runs the guards for path and fails if they redirect elsewhere.
func navigate(a *app.App, path string) (routes.Location, error) {
	loc := a.Navigator.Navigate(path)
	if loc.Path == path {
		return loc, nil
	}

	switch loc.Path {
	case routes.SignIn:
		return loc, fmt.Errorf("you must be signed in (run `inkpost signin`)")
	case routes.Home:
		if a.Store.IsAuthenticated() && (path == routes.SignIn || path == routes.SignUp) {
			return loc, fmt.Errorf("already signed in as %s", a.Store.Email())
		}
	}
	return loc, fmt.Errorf("cannot open %s", path)
}

// stdinConfirm asks on in and reads a y/N answer.
func stdinConfirm(in io.Reader, out io.Writer) view.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
