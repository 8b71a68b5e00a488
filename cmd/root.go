/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Daskott/agenda/api"
	"github.com/Daskott/agenda/colors"
	devConfig "github.com/Daskott/agenda/dev/config"
	"github.com/Daskott/agenda/logger"
	"github.com/Daskott/agenda/shared"
	"github.com/Daskott/agenda/store"
	"github.com/Daskott/agenda/utils"
	"github.com/Daskott/agenda/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const VERSION = "0.1.0"

var (
	cfgFile  string
	apiURL   string
	isDevEnv bool
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

// app bundles what every command needs once config is loaded
type app struct {
	config shared.ClientConfig
	logg   *zap.SugaredLogger
	store  *store.Store
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd = createRootCmd()
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "agenda",
		Short: `agenda is a CLI for managing your contacts.

Contacts live in a remote collection resource; every change is followed by
a fresh read of the whole collection so what you see is what was saved.`,
		Version:       fmt.Sprintf("v%s", VERSION),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.agenda.yaml)")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "contacts collection URL, overrides 'api.url' in config")
	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		createListCmd(),
		createAddCmd(),
		createEditCmd(),
		createDeleteCmd(),
		createWatchCmd(),
	)

	return cmd
}

// newApp loads config & wires the api client into a store
func newApp(cmd *cobra.Command, opts ...store.Option) (*app, error) {
	logg := logger.NewLogger(verbose)

	config, err := loadConfig(cmd, logg)
	if err != nil {
		return nil, err
	}

	opts = append([]store.Option{
		store.WithLogger(logg),
		store.WithNoticeTTL(config.Notices.TTL),
	}, opts...)

	client := api.NewClient(config.API.URL, config.API.Timeout)

	return &app{
		config: *config,
		logg:   logg,
		store:  store.New(client, opts...),
	}, nil
}

// ---------------------------------------------------------------------------------//
// Config Helpers
// --------------------------------------------------------------------------------//

// loadConfig reads in config file, ENV variables & flags and returns a validated ClientConfig
func loadConfig(cmd *cobra.Command, logg *zap.SugaredLogger) (*shared.ClientConfig, error) {
	config := viper.New()

	config.SetDefault("api.url", devConfig.DEFAULT_API_URL)
	config.SetDefault("api.timeout", devConfig.DEFAULT_API_TIMEOUT)
	config.SetDefault("notices.ttl", devConfig.DEFAULT_NOTICE_TTL)
	config.SetDefault("watch.interval", devConfig.DEFAULT_WATCH_INTERVAL)

	if cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(cfgFile)
	} else {
		configName, configDir, err := defaultCfgNameAndDir()
		if err != nil {
			return nil, err
		}

		// If config file is not found, create one using DEFAULT_AGENDA_YML
		configFilePath := filepath.Join(configDir, configName)
		err = utils.WriteFileIfNotExist(configFilePath, []byte(devConfig.DEFAULT_AGENDA_YML))
		if err != nil {
			return nil, err
		}

		config.SetConfigFile(configFilePath)
	}
	config.SetConfigType("yaml")

	// e.g. AGENDA_API_URL overrides 'api.url'
	config.SetEnvPrefix("AGENDA")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	if flag := cmd.Flags().Lookup("api-url"); flag != nil {
		config.BindPFlag("api.url", flag)
	}

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err == nil {
		logg.Debugw("using config file", "path", config.ConfigFileUsed())
	} else {
		logg.Debugw("no config file read", "error", err)
	}

	clientConfig := shared.ClientConfig{}
	err := config.Unmarshal(&clientConfig)
	if err != nil {
		return nil, formattedError("unable to decode config: %v", err)
	}

	err = validation.ValidateStruct(clientConfig)
	if err != nil {
		return nil, formattedError("invalid config in %s: %v", config.ConfigFileUsed(), err)
	}

	return &clientConfig, nil
}

func defaultCfgNameAndDir() (configName string, configDir string, err error) {
	configName = ".agenda.yaml"

	// Use home directory for production
	configDir, err = os.UserHomeDir()
	if err != nil {
		return "", "", err
	}

	if isDevEnv {
		configName = ".agenda.dev.yaml"
		configDir, err = os.Getwd()
		if err != nil {
			return "", "", err
		}
	}

	return configName, configDir, err
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(colors.Error(format), a...)
}
