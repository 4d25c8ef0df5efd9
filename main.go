package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/ledgerdash/cmd/backup"
	"fjacquet/ledgerdash/cmd/buy"
	"fjacquet/ledgerdash/cmd/category"
	"fjacquet/ledgerdash/cmd/convert"
	"fjacquet/ledgerdash/cmd/dashboard"
	"fjacquet/ledgerdash/cmd/delivery"
	"fjacquet/ledgerdash/cmd/order"
	"fjacquet/ledgerdash/cmd/parcel"
	"fjacquet/ledgerdash/cmd/pay"
	"fjacquet/ledgerdash/cmd/person"
	"fjacquet/ledgerdash/cmd/receive"
	"fjacquet/ledgerdash/cmd/report"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/cmd/settings"
	"fjacquet/ledgerdash/cmd/transfer"
	"fjacquet/ledgerdash/cmd/tx"
	"fjacquet/ledgerdash/cmd/user"
	"fjacquet/ledgerdash/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// Environment first so LEDGERDASH_* values from .env are visible to
	// the log level and to viper.
	config.LoadEnv()
	configureLogLevelDirectly()

	root.Init()

	root.Cmd.AddCommand(receive.Cmd)
	root.Cmd.AddCommand(pay.Cmd)
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(transfer.Cmd)
	root.Cmd.AddCommand(buy.Cmd)
	root.Cmd.AddCommand(delivery.Cmd)
	root.Cmd.AddCommand(tx.Cmd)
	root.Cmd.AddCommand(person.Cmd)
	root.Cmd.AddCommand(category.Cmd)
	root.Cmd.AddCommand(order.Cmd)
	root.Cmd.AddCommand(parcel.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(dashboard.Cmd)
	root.Cmd.AddCommand(backup.Cmd)
	root.Cmd.AddCommand(settings.Cmd)
	root.Cmd.AddCommand(user.Cmd)
}

// configureLogLevelDirectly sets the global logrus level before any logger
// is built.
func configureLogLevelDirectly() {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
