package main

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/dragonwm/internal/config"
)

var printDefaults bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd, configPrintCmd, configExplainCmd)
	configPrintCmd.Flags().BoolVar(&printDefaults, `defaults`, false, `print built-in defaults (no files)`)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect the configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "check the config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			fmt.Println("config: ok")
			return nil
		})
	},
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "print the effective config",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			cfg := config.DefaultConfig()
			if !printDefaults {
				res, err := loadConfig()
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Wrap(err, 0)
			}
			fmt.Print(string(data))
			return nil
		})
	},
}

var configExplainCmd = &cobra.Command{
	Use:   "explain <yaml.path>",
	Short: "show a config value and where it came from",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			res, err := loadConfig()
			if err != nil {
				return err
			}
			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(value)
			if err != nil {
				return errors.Wrap(err, 0)
			}
			fmt.Printf("path: %s\n", args[0])
			fmt.Printf("source: %s\n", formatSource(src))
			fmt.Printf("value:\n%s", string(out))
			return nil
		})
	},
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
