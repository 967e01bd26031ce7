package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cdm-catcher/internal/catcher"
	"github.com/ginjaninja78/cdm-catcher/internal/config"
	"github.com/ginjaninja78/cdm-catcher/internal/logging"
	"github.com/ginjaninja78/cdm-catcher/pkg/utils"
)

// app is the per-invocation context shared by the command handlers.
type app struct {
	config *config.Config
	logger logging.Logger
	client *catcher.Client
}

// newApp loads the configuration and builds the logger and the client.
// withCredentials rejects a configuration without complete credentials.
func newApp(cmd *cobra.Command, withCredentials bool) (*app, error) {
	cfg, err := config.Load(cfgFile, cfgFile != "")
	if err != nil {
		return nil, err
	}
	if withCredentials {
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, err
		}
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	client := catcher.NewClient(catcher.ClientConfig{
		Endpoint:    cfg.Catcher.Endpoint,
		Namespace:   cfg.Catcher.Namespace,
		Credentials: catcher.Credentials{
			URL:      cfg.ContentDM.URL,
			Username: cfg.ContentDM.Username,
			Password: cfg.ContentDM.Password,
			License:  cfg.ContentDM.License,
		},
		RequestsPerSecond: cfg.Catcher.RequestsPerSecond,
		Timeout:           cfg.Catcher.Timeout,
		Logger:            logger,
	})

	return &app{config: cfg, logger: logger, client: client}, nil
}

// write sends body to --output (resolved against defaultName) or stdout.
func (a *app) write(cmd *cobra.Command, defaultName string, body []byte) error {
	path := utils.ResolveOutputPath(outputPath, defaultName)
	if err := utils.WriteOutput(path, cmd.OutOrStdout(), body); err != nil {
		return err
	}
	if path != "" && len(body) > 0 {
		a.logger.Info("output written", "path", path, "bytes", len(body))
	}
	return nil
}

// printServiceVersion prints the getWSVersion answer. No credentials needed.
func printServiceVersion(cmd *cobra.Command) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	v, err := a.client.Version(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Catcher version: %s\n", v)
	return nil
}
