package cli

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"visionlink/internal/api"
	"visionlink/internal/config"
	"visionlink/internal/session"
	"visionlink/internal/store"
)

// Options wires a root command. Zero values fall back to the process defaults.
type Options struct {
	Config   config.Config
	Stdout   io.Writer
	Stdin    io.Reader
	Stderr   io.Writer
	Prompter Prompter
	// Client skips store and client construction; tests inject one bound to a
	// local server.
	Client *api.Client
}

const userAgent = "visionlink-cli"

type app struct {
	cfg      config.Config
	out      io.Writer
	prompter Prompter
	client   *api.Client
	owned    *session.Store
}

// NewRootCommand builds the visionlink command tree.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{cfg: opts.Config, out: opts.Stdout, prompter: opts.Prompter, client: opts.Client}
	if a.out == nil {
		a.out = os.Stdout
	}
	in := opts.Stdin
	if in == nil {
		in = os.Stdin
	}
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	if a.prompter == nil {
		a.prompter = defaultPrompter(in, a.out)
	}

	root := &cobra.Command{
		Use:           "visionlink",
		Short:         "VisionLink customer client: account, plans and support chat",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.InitLogger(errOut, a.cfg.LogLevel)
			return a.connect(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.SetOut(a.out)
	root.SetErr(errOut)
	root.SetIn(in)

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.APIURL, "api-url", a.cfg.APIURL, "base URL of the VisionLink API")
	f.StringVar(&a.cfg.Store, "store", a.cfg.Store, "session store: file, memory, sqlite, postgres or redis")
	f.StringVar(&a.cfg.Profile, "profile", a.cfg.Profile, "session profile name inside shared stores")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: trace, debug, info, warn, error")
	f.BoolVar(&a.cfg.StrictAuth, "strict-auth", a.cfg.StrictAuth, "fail locally when an authenticated call has no token")

	root.AddCommand(
		a.newLoginCommand(),
		a.newRegisterCommand(),
		a.newLogoutCommand(),
		a.newWhoamiCommand(),
		a.newProfileCommand(),
		a.newPlansCommand(),
		a.newPlanCommand(),
		a.newSubscribeCommand(),
		a.newChatCommand(),
		a.newSessionCommand(),
	)
	return root
}

func (a *app) connect(ctx context.Context) error {
	if a.client != nil {
		return nil
	}
	backend, err := store.Open(ctx, store.Options{
		Kind:        store.Kind(a.cfg.Store),
		FilePath:    a.cfg.StateFile,
		SQLitePath:  a.cfg.SQLitePath,
		DatabaseURL: a.cfg.DatabaseURL,
		RedisURL:    a.cfg.RedisURL,
		Profile:     a.cfg.Profile,
	})
	if err != nil {
		return errors.Wrap(err, "open session store")
	}
	sess, err := session.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return errors.Wrap(err, "load session")
	}
	a.owned = sess
	opts := []api.Option{
		api.WithStrictAuth(a.cfg.StrictAuth),
		api.WithLogger(log.Logger),
		api.WithUserAgent(userAgent),
	}
	if a.cfg.HTTPTimeout > 0 {
		opts = append(opts, api.WithTimeout(a.cfg.HTTPTimeout))
	}
	a.client = api.New(a.cfg.APIURL, sess, opts...)
	log.Debug().Str("api", a.cfg.APIURL).Str("store", a.cfg.Store).Msg("client ready")
	return nil
}

func (a *app) close() error {
	if a.owned == nil {
		return nil
	}
	err := a.owned.Close()
	a.owned = nil
	return err
}

// Execute runs the command tree against ctx.
func Execute(ctx context.Context, cfg config.Config) error {
	return NewRootCommand(Options{Config: cfg}).ExecuteContext(ctx)
}
