// ABOUTME: Wiring shared by every CLI command
// ABOUTME: Builds the client, cache, executor, and mutator from config
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/harperreed/rolodex/api"
	"github.com/harperreed/rolodex/cache"
	"github.com/harperreed/rolodex/config"
	"github.com/harperreed/rolodex/logging"
	"github.com/harperreed/rolodex/mutations"
)

// App holds the library components a command needs.
type App struct {
	Config *config.Config
	Client *api.Client
	Exec   *api.Executor
	Mut    *mutations.Mutator
	Log    *log.Logger

	// Color enables styled output.
	Color bool
	Now   func() time.Time

	store cache.Store
}

// NewApp connects to the backend named in cfg. logger may be nil.
func NewApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	logger = logging.OrDiscard(logger)

	store, err := cache.OpenMemory(cfg.StaleTime.Std(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	client := api.NewClient(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout.Std()),
		api.WithLogger(logger),
	)

	return &App{
		Config: cfg,
		Client: client,
		Exec:   api.NewExecutor(client, store, logger),
		Mut:    mutations.New(client, store, logger),
		Log:    logger,
		Color:  !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd())),
		Now:    time.Now,
		store:  store,
	}, nil
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
