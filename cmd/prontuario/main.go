// Command prontuario is the terminal client for the clinic's
// patient-records API: sign in, browse and edit patients, and record
// progress notes ("evoluções").
//
// Configuration follows CONFIG_PATH / environment variables; see
// internal/config. Session state lives under ~/.prontuario by default.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lnclinic/prontuario/internal/app"
	"github.com/lnclinic/prontuario/internal/cache"
	"github.com/lnclinic/prontuario/internal/config"
	"github.com/lnclinic/prontuario/internal/cookiejar"
	"github.com/lnclinic/prontuario/internal/graphql"
	"github.com/lnclinic/prontuario/internal/records"
	"github.com/lnclinic/prontuario/internal/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "prontuario",
		Short:         "Patient-records client for the clinic API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(signinCmd())
	rootCmd.AddCommand(signoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(servicesCmd())
	rootCmd.AddCommand(patientsCmd())
	rootCmd.AddCommand(patientCmd())
	rootCmd.AddCommand(noteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cliApp wires the SDK the way the web app wired its providers: one config,
// one logger, one cookie jar, one GraphQL client, one session manager.
type cliApp struct {
	cfg     *config.Config
	log     *slog.Logger
	jar     *cookiejar.Jar
	session *session.Manager
	records *records.Client
	cache   *cache.Store
}

func newCLIApp() (*cliApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(cfg.Log)

	stateDir := cfg.State.Dir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		stateDir = filepath.Join(home, ".prontuario")
	}

	jar, err := cookiejar.New(stateDir, cfg.State.CookieName)
	if err != nil {
		return nil, err
	}

	gql := graphql.NewClient(cfg.API.Endpoint, cfg.API.Timeout, logger)
	sess := session.NewManager(jar, gql, cfg.State.CookieMaxAge, cfg.State.CookiePath, logger)

	var (
		store        *cache.Store
		patientCache records.PatientCache
	)
	if !cfg.Cache.Disabled {
		path := cfg.Cache.Path
		if path == "" {
			path = filepath.Join(stateDir, "cache.db")
		}
		store, err = cache.Open(path)
		if err != nil {
			// The cache is a convenience; a broken cache file must not
			// block online use.
			logger.Warn("opening patient cache failed", slog.String("error", err.Error()))
		} else {
			patientCache = store
		}
	}

	return &cliApp{
		cfg:     cfg,
		log:     logger,
		jar:     jar,
		session: sess,
		records: records.NewClient(gql, sess, patientCache, logger),
		cache:   store,
	}, nil
}

func (a *cliApp) close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// requireAuth mirrors the protected-page contract: without a token the
// command fails and points at the sign-in destination carrying the origin.
func (a *cliApp) requireAuth(page string) error {
	if a.session.IsAuthenticated() {
		return nil
	}
	return fmt.Errorf("not authenticated, run \"prontuario signin\" (web equivalent: %s)", session.SignInURL(page))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(app.BuildVersion())
		},
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format("02/01/2006 15:04")
}
