package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/commitgate/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitRepo bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage commitgate configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s\n", path)
			return nil
		}

		if err := config.Save(path, config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(flagConfig)
		if err != nil {
			return err
		}

		cfg, err := config.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}
		mergeDefaults(&cfg, config.Default())

		if err := setAndCheck(&cfg, args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}

		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(flagConfig)
		if err != nil {
			return err
		}
		cfg, err := config.Load(path, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
		return nil
	},
}

// initPath is the explicit --config path, the repository file with --repo,
// or the user config file.
func initPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	if configInitRepo {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, config.RepoConfigName), nil
	}
	return config.ConfigPath()
}

// setAndCheck sets key and rejects values the loader would refuse later.
func setAndCheck(cfg *config.Config, key, value string) error {
	if err := config.SetField(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err := cfg.Lint()
	return err
}

// mergeDefaults fills fields a partial config file left unset so a saved
// file stays loadable.
func mergeDefaults(cfg *config.Config, base config.Config) {
	if cfg.Types.IsZero() {
		cfg.Types = base.Types
	}
	if cfg.MaxSubjectLength == 0 {
		cfg.MaxSubjectLength = base.MaxSubjectLength
	}
	if cfg.Format == "" {
		cfg.Format = base.Format
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = base.Jobs
	}
	if cfg.SubjectPatternError == "" {
		cfg.SubjectPatternError = base.SubjectPatternError
	}
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&configInitRepo, "repo", false, "Create "+config.RepoConfigName+" in the current directory")
}
