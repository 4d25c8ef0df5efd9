// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/ledgerdash/internal/config"
	"fjacquet/ledgerdash/internal/container"
	"fjacquet/ledgerdash/internal/report"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to every command
type CommonFlags struct {
	ConfigFile string
	DataDir    string
	User       string
	Password   string
	Yes        bool
	Raw        bool
	Style      string
}

var (
	// AppContainer holds the dependencies of the running command.
	AppContainer *container.Container

	// injected is set when AppContainer was provided by SetContainer and
	// must survive the command.
	injected bool

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledgerdash",
		Short: "A multi-currency bookkeeping CLI for a small trading partnership.",
		Long: `ledgerdash keeps the shared books of a small group of partners.
It records receipts, payments, transfers, currency conversions, purchases and
deliveries in usd, cny and irr, and derives balances, orders, packages and
reports from them.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches $HOME/.ledgerdash, .ledgerdash and .)")
		flags.StringVar(&SharedFlags.DataDir, "data-dir", "", "Directory holding the ledger data (overrides storage.directory)")
		flags.StringVar(&SharedFlags.User, "user", "", "User recording the change (default $LEDGERDASH_USER)")
		flags.StringVar(&SharedFlags.Password, "password", "", "Password of the user (default $LEDGERDASH_PASSWORD)")
		flags.BoolVarP(&SharedFlags.Yes, "yes", "y", false, "Confirm changes that leave a balance negative")
		flags.BoolVar(&SharedFlags.Raw, "raw", false, "Print markdown instead of rendering it for the terminal")
		flags.StringVar(&SharedFlags.Style, "style", "", "Terminal style: dark, light, notty, ascii (default detects the terminal)")
	})
}

// SetContainer injects c as the container of every following command.
// Passing nil restores the default wiring.
func SetContainer(c *container.Container) {
	AppContainer = c
	injected = c != nil
}

// GetContainer returns the container of the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}

// Execute runs the command tree. Changes still pending when a command
// fails are saved before it returns.
func Execute() error {
	err := Cmd.Execute()
	if AppContainer != nil && !injected {
		if closeErr := AppContainer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		AppContainer = nil
	}
	return err
}

func setup(cmd *cobra.Command, args []string) error {
	if !injected {
		config.LoadEnv()
		cfg, err := config.InitializeConfigFile(SharedFlags.ConfigFile)
		if err != nil {
			return err
		}
		if SharedFlags.DataDir != "" {
			cfg.Storage.Directory = SharedFlags.DataDir
		}
		c, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		AppContainer = c
	}
	AppContainer.GetReportGenerator().WithRenderer(report.NewRenderer(SharedFlags.Style, SharedFlags.Raw))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if AppContainer == nil {
		return nil
	}
	if injected {
		return AppContainer.Flush()
	}
	err := AppContainer.Close()
	AppContainer = nil
	return err
}
