package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// errExit carries an exit code. Use errors.As to detect it.
type errExit int

func (e errExit) Error() string {
	return "exit " + strconv.Itoa(int(e))
}

// stdin is read by `key set` when no key argument is given. Tests may replace it.
var stdin io.Reader = os.Stdin

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(args []string) int {
	rootCmd := &cobra.Command{
		Use:   "commitsugar",
		Short: "Draft commit messages from your working tree with an LLM",
		Long: `commitsugar reads the pending changes of a git repository and streams a
commit message draft from the configured model.

Configuration, lowest to highest precedence:
  defaults < config.toml < saved settings < COMMITSUGAR_* environment`,
		Version: version,
	}
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newKeyCmd())
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		var exitErr errExit
		if errors.As(err, &exitErr) {
			return int(exitErr)
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
