package actors

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/viper"

	"github.com/jiangplus/nostr-snap/engine/library"
)

const (
	configFile           = "config.yaml"
	defaultVerifyWorkers = 4
)

// InitConfig sets up our Viper config object. Every key can be overridden with
// a NOSTRSNAP_ environment variable, e.g. NOSTRSNAP_PRIVATEKEY.
func InitConfig(config *viper.Viper) error {
	config.SetEnvPrefix("nostrsnap")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 2)
		homeDir = "."
	}
	config.SetDefault("rootDir", filepath.Join(homeDir, "nostr-snap")+string(os.PathSeparator))
	config.SetConfigType("yaml")
	config.SetConfigFile(filepath.Join(config.GetString("rootDir"), configFile))
	if err := config.ReadInConfig(); err != nil {
		library.LogCLI(err.Error(), 4)
	}
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("logLevel", 2)
	config.SetDefault("verifyWorkers", defaultVerifyWorkers)
	config.SetDefault("defaultKind", 1)
	// privateKey and seedWords have no default, they are only read.

	library.SetLogLevel(config.GetInt("logLevel"))

	// Create our working directory and config file if not exist
	if err := initRootDir(config); err != nil {
		return err
	}
	path := filepath.Join(config.GetString("rootDir"), configFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.SafeWriteConfigAs(path); err != nil {
			return fmt.Errorf("write config %s: %w", path, err)
		}
	}
	return nil
}

func initRootDir(conf *viper.Viper) error {
	if err := os.MkdirAll(conf.GetString("rootDir"), 0755); err != nil {
		return fmt.Errorf("create root dir: %w", err)
	}
	return nil
}

var conf *viper.Viper
var confMutex = &deadlock.Mutex{}

// MakeOrGetConfig returns the global config, initialising a default one on
// first use. Initialising creates rootDir and config.yaml.
func MakeOrGetConfig() *viper.Viper {
	confMutex.Lock()
	defer confMutex.Unlock()
	if conf == nil {
		c := viper.New()
		if err := InitConfig(c); err != nil {
			library.LogCLI(err.Error(), 1)
		}
		conf = c
	}
	return conf
}

func SetConfig(config *viper.Viper) {
	confMutex.Lock()
	defer confMutex.Unlock()
	conf = config
}

// configInt reads key from the global config if one has been set, without
// creating one. A missing or zero value gives fallback.
func configInt(key string, fallback int) int {
	confMutex.Lock()
	defer confMutex.Unlock()
	if conf == nil {
		return fallback
	}
	if v := conf.GetInt(key); v != 0 {
		return v
	}
	return fallback
}
