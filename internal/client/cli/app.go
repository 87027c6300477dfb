package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/client/api"
	"github.com/dmitrijs2005/scalehub/internal/client/config"
	"github.com/dmitrijs2005/scalehub/internal/client/querycache"
	"github.com/dmitrijs2005/scalehub/internal/client/services"
	"github.com/dmitrijs2005/scalehub/internal/client/session"
	"github.com/dmitrijs2005/scalehub/internal/client/store"
	"github.com/dmitrijs2005/scalehub/internal/filex"

	_ "modernc.org/sqlite"
)

// Mode reflects the last known connectivity to the hub.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config         *config.Config
	repos          *store.Repositories
	session        *session.Session
	authService    services.AuthService
	deviceService  services.DeviceService
	productService services.ProductService
	Mode           Mode
	reader         *bufio.Reader
}

// NewApp wires the full client: local database, session, query cache,
// HTTP client and the services on top of them. Logging out clears the
// session, and the query cache is hooked to drop with it.
func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	// A bare filename goes into the data subdirectory; explicit paths are
	// used as given.
	dbPath := c.DatabasePath
	if filepath.Dir(dbPath) == "." {
		dir, err := filex.EnsureSubdDir("data")
		if err != nil {
			log.Printf("error preparing data dir: %s", err.Error())
			return nil, err
		}
		dbPath = filepath.Join(dir, dbPath)
	}

	repos, err := store.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	sess := session.New()
	cache := querycache.New()
	sess.OnClear(cache.Purge)

	apiClient := api.NewHTTPClient(c.ServerURL, sess, c.RequestTimeout, c.RateLimit)

	as := services.NewAuthService(apiClient, sess, repos.DB)
	ds := services.NewDeviceService(apiClient, cache)
	ps := services.NewProductService(apiClient, cache)

	return &App{
		config:         c,
		repos:          repos,
		session:        sess,
		authService:    as,
		deviceService:  ds,
		productService: ps,
		reader:         bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// Run restores a previously saved session and hands control to the REPL.
// Resources are released when the REPL returns.
func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()
	defer a.authService.Close(ctx)

	if err := a.authService.Restore(ctx); err != nil {
		log.Printf("error restoring session: %v", err)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Active()
}

// StartOnlineStatusWatcher polls the hub health endpoint on the given
// interval and flips Mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Healthz(ctx)
			cancel()

			if err != nil {
				if a.Mode != ModeOffline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
