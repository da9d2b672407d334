package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/demellj/wmgrd/internal/config"
	"github.com/demellj/wmgrd/internal/engine"
	"github.com/demellj/wmgrd/internal/logger"
	"github.com/demellj/wmgrd/internal/transport/httpapi"
	"github.com/demellj/wmgrd/internal/transport/stdio"
	"github.com/demellj/wmgrd/internal/x11"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the X11 server and run the window-manager core",
	Long: `Start wmgrd: acquire substructure-redirect on the X11 root, create the
virtual-root stacking separator, and run the wake/arbitration loop
against the configured control-plane transport.`,
	Example: `  # Serve over stdio (the default)
  wmgrd serve

  # Serve over HTTP on a custom address
  wmgrd serve --transport http --listen-addr 127.0.0.1:7890`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}

	if viper.IsSet("transport") {
		if t := viper.GetString("transport"); t != "" {
			cfg := configMgr.Get()
			cfg.Transport = t
			_ = configMgr.Save(cfg)
		}
	}
	if viper.IsSet("listen_addr") {
		if a := viper.GetString("listen_addr"); a != "" {
			cfg := configMgr.Get()
			cfg.ListenAddr = a
			_ = configMgr.Save(cfg)
		}
	}
	if viper.IsSet("log_level") {
		if l := viper.GetString("log_level"); l != "" {
			cfg := configMgr.Get()
			cfg.LogLevel = l
			_ = configMgr.Save(cfg)
		}
	}

	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	configMgr.WatchLogLevel(func(c config.Config) {
		logger.Init(c.LogLevel, c.LogPretty)
	})

	log := logger.WithComponent(logger.ComponentDaemon)
	log.Info().Str("config", configMgr.ConfigPath()).Msg("configuration loaded")

	log.Info().Msg("connecting to X11 server")
	sess, err := x11.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to X11 server: %w", err)
	}
	defer sess.Close()

	eng := engine.New(sess)

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- eng.Serve()
	}()

	switch cfg.Transport {
	case "http":
		srv := httpapi.NewServer(eng)
		go func() {
			if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
				log.Fatal().Err(err).Msg("http transport exited")
			}
		}()
		log.Info().Str("addr", cfg.ListenAddr).Msg("serving control plane over http")
	case "stdio", "":
		go func() {
			if err := stdio.Serve(os.Stdin, os.Stdout, eng); err != nil {
				log.Warn().Err(err).Msg("stdio transport exited")
			}
		}()
		log.Info().Msg("serving control plane over stdio")
	default:
		return fmt.Errorf("unsupported transport %q", cfg.Transport)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutting down")
		eng.Close()
		return nil
	case err := <-serveErrCh:
		return fmt.Errorf("engine loop exited: %w", err)
	}
}
