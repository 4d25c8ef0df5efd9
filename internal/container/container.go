// Package container provides dependency injection for the ledgerdash application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"sync"

	"fjacquet/ledgerdash/internal/auth"
	"fjacquet/ledgerdash/internal/autosave"
	"fjacquet/ledgerdash/internal/config"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/report"
	"fjacquet/ledgerdash/internal/state"
	"fjacquet/ledgerdash/internal/store"
)

// Container holds all application dependencies and the in-memory state of
// one process. Dependencies are private and reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	kv         store.KeyValueStore
	categories *store.CategoryStore
	repository *store.Repository
	autosaver  *autosave.Autosaver
	generator  *report.ReportGenerator
	auth       *auth.Authenticator

	mu     sync.Mutex
	state  state.State
	loaded bool
}

// NewContainer creates and wires all application dependencies, persisting
// to the configured data directory.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	return NewContainerWithStore(cfg, store.NewFileStore(cfg.DataDirectory()), logger)
}

// NewContainerWithStore wires the application over kv. A nil logger
// discards output.
func NewContainerWithStore(cfg *config.Config, kv store.KeyValueStore, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if kv == nil {
		return nil, fmt.Errorf("key-value store cannot be nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	categoryStore := store.NewCategoryStore(cfg.Categories.File, logger)
	seed, err := categoryStore.LoadCategories()
	if err != nil {
		logger.WithError(err).Warn("Category seed ignored",
			logging.F(logging.FieldFile, cfg.Categories.File))
		seed = nil
	}

	repository := store.NewRepository(kv, logger.WithField(logging.FieldComponent, "Repository"), cfg.Storage.BackupEvery).
		WithCategorySeed(seed)

	saverLog := logger.WithField(logging.FieldComponent, "Autosaver")
	saver := autosave.New(repository, cfg.DebounceDelay(), saverLog).
		OnError(func(err error) {
			saverLog.WithError(err).Error("Changes not persisted, they remain in memory")
		})

	generator := report.NewReportGenerator(logger, cfg.Delimiter(), cfg.CSV.DateFormat)

	accounts := make([]auth.Account, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		accounts = append(accounts, auth.Account{
			Username:     u.Username,
			Password:     u.Password,
			PasswordHash: u.PasswordHash,
			Role:         auth.Role(u.Role),
		})
	}

	logger.Debug("Container initialized",
		logging.F("policy", string(cfg.Policy())),
		logging.F("users", len(accounts)),
		logging.F("debounce_ms", saver.Delay().Milliseconds()))

	return &Container{
		logger:     logger,
		config:     cfg,
		kv:         kv,
		categories: categoryStore,
		repository: repository,
		autosaver:  saver,
		generator:  generator,
		auth:       auth.NewAuthenticator(accounts, logger),
	}, nil
}

// State returns the current state, loading it from the store on first use.
func (c *Container) State() (state.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(); err != nil {
		return state.State{}, err
	}
	return c.state, nil
}

func (c *Container) loadLocked() error {
	if c.loaded {
		return nil
	}
	s, err := c.repository.Load()
	if err != nil {
		return err
	}
	c.state = s
	c.loaded = true
	return nil
}

// Dispatch applies action under the effective negative balance policy and
// schedules the new state for saving. A refused action leaves the state
// as it was.
func (c *Container) Dispatch(action state.Action) (state.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(); err != nil {
		return state.State{}, err
	}
	reducer := state.NewReducer(c.Policy(c.state), c.logger)
	next, err := reducer.Reduce(c.state, action)
	if err != nil {
		return c.state, err
	}
	c.state = next
	c.autosaver.Trigger(next)
	return next, nil
}

// Policy returns the negative balance policy in force for s: the stored
// override, else the configured one.
func (c *Container) Policy(s state.State) ledger.Policy {
	return s.Policy(c.config.Policy())
}

// OrderOwner returns the person whose buy records form the order views.
func (c *Container) OrderOwner() string {
	if c.config.Ledger.OrderOwner == "" {
		return models.DefaultOrderOwner
	}
	return c.config.Ledger.OrderOwner
}

// ReferenceCurrency returns the currency shown first on the dashboard.
func (c *Container) ReferenceCurrency() models.Currency {
	cur, err := models.ParseCurrency(c.config.Ledger.ReferenceCurrency)
	if err != nil {
		return models.USD
	}
	return cur
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the key-value store backing the repository.
func (c *Container) GetStore() store.KeyValueStore {
	return c.kv
}

// GetCategoryStore returns the category seed store.
func (c *Container) GetCategoryStore() *store.CategoryStore {
	return c.categories
}

// GetRepository returns the state repository.
func (c *Container) GetRepository() *store.Repository {
	return c.repository
}

// GetAutosaver returns the debounced saver.
func (c *Container) GetAutosaver() *autosave.Autosaver {
	return c.autosaver
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// GetAuthenticator returns the allow-list gate.
func (c *Container) GetAuthenticator() *auth.Authenticator {
	return c.auth
}

// Flush saves any pending change now.
func (c *Container) Flush() error {
	if c.autosaver.Pending() {
		c.logger.Debug("Saving pending changes")
	}
	if err := c.autosaver.Flush(); err != nil {
		return fmt.Errorf("failed to save pending changes: %w", err)
	}
	return nil
}

// Close saves any pending change and stops autosaving. It should be called
// before the process exits.
func (c *Container) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	c.autosaver.Stop()
	c.logger.Debug("Container closed")
	return nil
}
