// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/pkg/config"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/spf13/viper"
)

// App is the state shared by every command of one invocation.
type App struct {
	// Log writes to the log file and to the console at the display level.
	Log luxlog.Logger
	// FileLog writes to the log file only.
	FileLog luxlog.Logger
	Viper   *viper.Viper
	RunID   string

	baseDir string
}

func New() *App {
	return &App{
		Log:     luxlog.Noop(),
		FileLog: luxlog.Noop(),
		Viper:   viper.New(),
	}
}

func (app *App) Setup(baseDir string, v *viper.Viper) {
	app.baseDir = baseDir
	app.RunID = uuid.NewString()
	app.Viper = v
}

// SetLoggers installs the loggers of this invocation, tagged with its run ID.
func (app *App) SetLoggers(log, fileLog luxlog.Logger) {
	app.Log = log.New("runID", app.RunID)
	app.FileLog = fileLog.New("runID", app.RunID)
}

func (app *App) GetBaseDir() string {
	return app.baseDir
}

func (app *App) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *App) GetLogFile() string {
	return filepath.Join(app.GetLogDir(), constants.LogFileName)
}

// GetDefaultConfigFile is the config file read when --config is not given.
func (app *App) GetDefaultConfigFile() string {
	return filepath.Join(app.baseDir, constants.DefaultConfigFileName+"."+constants.DefaultConfigFileType)
}

func (app *App) ConfigFileExists() bool {
	return config.ConfigFileExists(app.Viper)
}

// LoadConfig merges flags, environment, config file and defaults.
func (app *App) LoadConfig() (config.Config, error) {
	return config.Load(app.Viper)
}

// EnsureDirs creates the base and log directories.
func (app *App) EnsureDirs() error {
	for _, dir := range []string{app.baseDir, app.GetLogDir()} {
		if err := os.MkdirAll(dir, constants.DefaultPerms755); err != nil {
			return fmt.Errorf("failed creating %s: %w", dir, err)
		}
	}
	return nil
}
