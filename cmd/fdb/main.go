// Command fdb is the operator CLI: archive, list, dump, wipe, purge, hide,
// and move against a local archive root, matching the library's Go API
// one subcommand at a time.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wxfdb/fdb/internal/fdblog"
)

// Exit codes: 0 success, 1 user error (bad request, missing roots), 2
// system error.
const (
	exitOK        = 0
	exitUserError = 1
	exitSysError  = 2
)

var (
	rootPath   string
	schemaPath string
	configPath string
	logLevel   string
	logJSON    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		if ue, ok := err.(userError); ok {
			fmt.Fprintf(os.Stderr, "fdb: %v\n", ue.err)
			return exitUserError
		}
		fmt.Fprintf(os.Stderr, "fdb: %v\n", err)
		return exitSysError
	}
	return exitOK
}

// userError marks an error as a bad-request-from-the-caller failure,
// distinct from a system/IO failure, for exit-code purposes.
type userError struct{ err error }

func (u userError) Error() string { return u.err.Error() }

func userErr(format string, args ...any) error {
	return userError{err: fmt.Errorf(format, args...)}
}

var rootCmd = &cobra.Command{
	Use:   "fdb",
	Short: "Operate a field-database archive root",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootPath, "root-path", "", "archive root directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema-path", "", "schema YAML path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", true, "output logs as JSON")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(moveCmd)
}

func initLogging() {
	fdblog.Init(fdblog.Config{
		Level:      fdblog.Level(logLevel),
		JSONOutput: logJSON,
		Output:     os.Stderr,
	})
}
