package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/config"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/exports"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/localdb"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/services"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/session"
	"github.com/dmitrijs2005/dropanalyzer/internal/logging"
	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config        *config.Config
	log           logging.Logger
	db            *sqlx.DB
	store         session.Store
	api           client.API
	authService   services.AuthService
	exportService services.ExportService
	nav           *loginNavigator

	reader   *bufio.Reader
	out      io.Writer
	ttyInput bool
	rawJSON  bool
}

// loginNavigator records the client's redirect to the login route. The
// shell acts on it before the next prompt; one-shot commands print a hint.
type loginNavigator struct {
	mu      sync.Mutex
	pending string
}

func (n *loginNavigator) Navigate(_ context.Context, route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = route
}

func (n *loginNavigator) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	r := n.pending
	n.pending = ""
	return r
}

// NewApp wires configuration, the session store, the API client and services.
// in and out are the user's terminal in production.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, logOut io.Writer) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logging.NewSlogLogger(logging.Setup(c.LogFormat, level, logOut))

	a := &App{
		config: c,
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
	}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		a.ttyInput = true
	}

	if c.NoPersist {
		a.store = session.NewMemoryStore()
	} else {
		db, err := localdb.Open(ctx, c.SessionDB)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.store = session.NewSQLiteStore(db)
	}

	a.nav = &loginNavigator{}
	api, err := client.New(c.APIBaseURL, a.store,
		client.WithNavigator(a.nav),
		client.WithLogger(log.With("component", "api")),
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.api = api
	a.authService = services.NewAuthService(api, a.store)
	a.exportService = services.NewExportService(api)
	return a, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SetRawJSON makes commands print response bodies as received.
func (a *App) SetRawJSON(v bool) {
	a.rawJSON = v
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	tok, err := a.store.Get(ctx)
	return err == nil && tok != ""
}

func (a *App) takeNavigation() string {
	return a.nav.take()
}

func (a *App) exportSink(ctx context.Context) (exports.Sink, error) {
	s3 := a.config.S3
	if s3.Bucket == "" {
		return exports.NewFileSink(a.config.ExportDir), nil
	}
	return exports.NewS3Sink(ctx, exports.S3Config{
		Bucket:    s3.Bucket,
		Region:    s3.Region,
		Endpoint:  s3.Endpoint,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
	})
}

// WaitForAPI polls the health endpoint with exponential backoff until it
// answers or max elapses. Only connectivity failures are retried.
func (a *App) WaitForAPI(ctx context.Context, max time.Duration) error {
	if max <= 0 {
		return nil
	}

	b := retry.NewExponential(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxDuration(max, b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		_, err := a.authService.Ping(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, client.ErrUnavailable) {
			a.log.Info(ctx, "api not ready", "attempt", attempt, "url", a.config.APIBaseURL)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("api at %s is not available: %w", a.config.APIBaseURL, err)
	}
	return nil
}

// describeError turns client errors into short user-facing text.
func (a *App) describeError(err error) string {
	var serr *client.StatusError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		if errors.As(err, &serr) && serr.Message != "" {
			return "not authorized: " + serr.Message
		}
		return "not authorized"
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Sprintf("API unavailable at %s", a.config.APIBaseURL)
	case errors.Is(err, session.ErrNoSession):
		return "not logged in"
	case errors.As(err, &serr):
		if serr.Message != "" {
			return serr.Message
		}
		return serr.Error()
	default:
		return err.Error()
	}
}
