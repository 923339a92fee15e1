package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/1broseidon/dragonwm/internal/hotkeys"
	"github.com/1broseidon/dragonwm/internal/ipc"
	"github.com/1broseidon/dragonwm/internal/launcher"
	"github.com/1broseidon/dragonwm/internal/logging"
	"github.com/1broseidon/dragonwm/internal/runtimepath"
	"github.com/1broseidon/dragonwm/internal/wm"
	"github.com/1broseidon/dragonwm/internal/x11"
)

var logFile string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&logFile, `log-file`, ``, `also append log lines to this file`)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the window manager",
	Long:  "Take over the X display and manage its windows until interrupted.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(runManager)
	},
}

func runManager() error {
	res, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, 0)
	}
	cfg := res.Config

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if debug {
		level = zerolog.DebugLevel
	}
	logger, err := logging.New(logging.WithConsole(os.Stderr), logging.WithLevel(level), logging.WithFile(logFile))
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer logger.Close()
	log := logger.Component("main")
	log.Info().Strs("files", res.Files).Msg("configuration loaded")

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		return errors.Errorf("failed to connect to display: %v", err)
	}
	defer conn.Close()
	if err := conn.BecomeManager("dragonwm"); err != nil {
		return errors.Wrap(err, 0)
	}

	keys := hotkeys.NewHandler(conn, logger.Component("hotkeys"))
	if err := keys.Register(cfg); err != nil {
		log.Warn().Err(err).Msg("some key bindings are unavailable")
	}
	if err := keys.RegisterPointer(cfg.Modifier); err != nil {
		log.Warn().Err(err).Msg("pan and zoom gestures are unavailable")
	}

	mgr := wm.New(wm.Options{
		Config:   cfg,
		Display:  conn,
		Keys:     keys,
		Launcher: launcher.New(logger.Component("launcher")),
		Bar:      launcher.NewPrompt(),
		Log:      logger.Z(),
	})
	conn.WithServerGrabbed(mgr.Adopt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var calls <-chan *ipc.Call
	if cfg.IPC.Enabled {
		if server, err := startControl(cfg.Display, logger.Component("ipc")); err != nil {
			log.Warn().Err(err).Msg("control socket disabled")
		} else {
			defer server.Stop()
			calls = server.Calls()
		}
	}

	log.Info().Int("managed", mgr.Registry().Len()).Msg("dragonwm started")
	if err := mgr.Run(ctx, conn, calls); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func startControl(display string, log zerolog.Logger) (*ipc.Server, error) {
	socket, err := runtimepath.SocketPath(display)
	if err != nil {
		return nil, err
	}
	server := ipc.NewServer(socket, log)
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}
