package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var Global global

// global holds the values of the configuration file that are not flags;
// flags found in the file are picked up by viper directly
type global struct {
	// Name and Email prefill the context fields of the form
	Name  string `mapstructure:"name" yaml:"name"`
	Email string `mapstructure:"email" yaml:"email"`

	SourcePath *string `mapstructure:"-" yaml:"-"`
}

func (g *global) IsGlobalConfigExists() bool {
	return g.SourcePath != nil
}

// ExpandHome resolves a leading `~` to the current user's home directory
func ExpandHome(from string) string {
	if from != "~" && !strings.HasPrefix(from, "~/") {
		return from
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return from
	}
	return filepath.Join(home, strings.TrimPrefix(from, "~"))
}

// LoadGlobal reads the yaml configuration file at `from` into viper and
// Global. A missing file is not an error, defaults are used instead
func LoadGlobal(from string) error {
	from = ExpandHome(from)
	logrus.Debugf("loading global configuration from path[%s]...", from)

	fi, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		logrus.Debugf("config file not found at path[%s], defaults will be used", from)
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check config file at path[%s]: %w", from, err)
	} else if fi.IsDir() {
		logrus.Warnf("config file path[%s] led to a directory, defaults will be used", from)
		return nil
	}
	viper.SetConfigFile(from)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := viper.Unmarshal(&Global); err != nil {
		return fmt.Errorf("failed to parse configuration file: %w", err)
	}
	Global.SourcePath = &from

	return nil
}
