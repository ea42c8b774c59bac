// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/cmd/addressescmd"
	"github.com/luxfi/pxe-deploy/cmd/deploycmd"
	"github.com/luxfi/pxe-deploy/cmd/infocmd"
	"github.com/luxfi/pxe-deploy/pkg/application"
	"github.com/luxfi/pxe-deploy/pkg/config"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	app *application.App

	logLevel    string
	Version     = "0.1.0"
	cfgFile     string
	verboseFlag bool
	debugFlag   bool
	quietFlag   bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "pxe-deploy",
		Long: `pxe-deploy deploys the group contract to a PXE and records its address.

A run connects to the PXE endpoint, resolves the signer identities, deploys
one new contract instance with the deployer as admin, waits for confirmation
and writes the address to addresses.json for downstream tooling.

QUICK START:

  # Deploy against a local sandbox
  pxe-deploy deploy

  # Deploy against another PXE from a freshly registered account
  PXE_URL=http://pxe.internal:8080 pxe-deploy deploy --strategy fresh

  # Show what was recorded
  pxe-deploy addresses show`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pxe-deploy/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level for console output (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Show verbose output (info level logs)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Show debug output (debug level logs)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Show only errors (quiet mode)")

	// add sub commands
	rootCmd.AddCommand(deploycmd.NewCmd(app))
	rootCmd.AddCommand(addressescmd.NewCmd(app))
	rootCmd.AddCommand(infocmd.NewCmd(app))

	return rootCmd
}

func createApp(_ *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	app.Setup(baseDir, viper.New())
	if err := app.EnsureDirs(); err != nil {
		return err
	}
	displayLevel, err := resolveDisplayLevel()
	if err != nil {
		return err
	}
	app.SetLoggers(setupLogging(app.GetLogFile(), displayLevel))
	return initConfig(app.Viper)
}

func setupEnv() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get user home dir %s\n", err)
		return "", err
	}
	return filepath.Join(home, constants.BaseDirName), nil
}

// resolveDisplayLevel picks the console log level. Switches win over
// --log-level; the default only shows warnings and errors.
func resolveDisplayLevel() (luxlog.Level, error) {
	switch {
	case debugFlag:
		return luxlog.DebugLevel, nil
	case verboseFlag:
		return luxlog.InfoLevel, nil
	case quietFlag:
		return luxlog.ErrorLevel, nil
	case logLevel != "":
		level, err := luxlog.ToLevel(logLevel)
		if err != nil {
			return luxlog.NoLevel, fmt.Errorf("invalid --log-level: %w", err)
		}
		return level, nil
	}
	return luxlog.WarnLevel, nil
}

// setupLogging returns a logger writing to [logFile] and to stderr, and one
// writing to [logFile] only. Each destination filters at its own level.
func setupLogging(logFile string, displayLevel luxlog.Level) (luxlog.Logger, luxlog.Logger) {
	logConfig := luxlog.Config{}
	logConfig.LogLevel = luxlog.InfoLevel
	logConfig.DisplayLevel = displayLevel
	// the file never holds less than the console shows
	if logConfig.DisplayLevel < logConfig.LogLevel {
		logConfig.LogLevel = logConfig.DisplayLevel
	}

	// some logging config params
	logConfig.MaxSize = constants.MaxLogFileSize
	logConfig.MaxFiles = constants.MaxNumOfLogFiles
	logConfig.MaxAge = constants.RetainOldFiles

	fileWriter := &luxlog.FilteredLevelWriter{
		Writer: luxlog.LevelWriterAdapter{Writer: &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logConfig.MaxSize,
			MaxBackups: logConfig.MaxFiles,
			MaxAge:     logConfig.MaxAge,
			Compress:   logConfig.Compress,
		}},
		Level: logConfig.LogLevel,
	}
	// User output goes to stdout, logs go to stderr
	consoleWriter := &luxlog.FilteredLevelWriter{
		Writer: luxlog.LevelWriterAdapter{Writer: luxlog.NewConsoleWriter(func(w *luxlog.ConsoleWriter) {
			w.Out = os.Stderr
			w.NoColor = !ux.IsTerminal(os.Stderr)
		})},
		Level: logConfig.DisplayLevel,
	}

	log := luxlog.NewWriter(luxlog.MultiLevelWriter(fileWriter, consoleWriter)).
		With().Timestamp().Logger().
		Level(logConfig.LogLevel)
	return log, log.Output(fileWriter)
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig(v *viper.Viper) error {
	config.SetDefaults(v)
	if err := config.BindEnv(v); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		path = app.GetDefaultConfigFile()
		// No config file is normal unless one was asked for explicitly
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	app.Log.Debug("using config file", luxlog.String("config-file", v.ConfigFileUsed()))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}
