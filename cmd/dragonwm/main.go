package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/dragonwm/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "dragonwm",
	Short:        "dragonwm zoomable window manager",
	Long:         "dragonwm places windows on an infinite plane you pan and zoom with a camera.",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	configPath string
	debug      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, `config`, ``, `config file path (default: ~/.config/dragonwm/config.yaml)`)
	rootCmd.PersistentFlags().BoolVar(&debug, `debug`, false, `debug logging and error stacks`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run executes fn and exits non-zero on failure, printing the stack when
// --debug is set and the error carries one.
func run(fn func() error) {
	err := fn()
	if err == nil {
		return
	}
	if stackFramer, ok := err.(interface{ ErrorStack() string }); debug && ok {
		fmt.Fprintln(os.Stderr, stackFramer.ErrorStack())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func loadConfig() (*config.LoadResult, error) {
	if configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(configPath)
}
