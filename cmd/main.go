package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neurocrypt/cmd/refresher"
	"neurocrypt/src/database"
	"neurocrypt/src/executors"
	"neurocrypt/src/marketdata"
	"neurocrypt/src/server"
	"neurocrypt/src/simulator"
	"neurocrypt/src/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "NeuroCrypt CMD"
	app.Usage = "The NeuroCrypt command line interface"

	app.Commands = []cli.Command{
		serverCMD,
		refresherCMD,
		sessionCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serverCMD = cli.Command{
		Name:        "server",
		Usage:       "run API server",
		Action:      serverAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run API server CMD`,
	}
	refresherCMD = cli.Command{
		Name:        "refresher",
		Usage:       "run valuation refresher",
		Action:      refresherAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run valuation refresher CMD`,
	}
	sessionCMD = cli.Command{
		Name:        "session",
		Usage:       "run headless simulator session",
		Action:      sessionAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run headless simulator session CMD`,
	}
)

func serverAction(_ *cli.Context) error {
	logrus.Info("Starting API server CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(server.GetConfig().Port)
	return nil
}

// sessionAction runs one user's simulator session without a UI: load the
// saved account through the profile store, then keep its valuations synced
// with the live feed until interrupted. A final flush runs on shutdown.
func sessionAction(_ *cli.Context) error {
	logrus.Info("Starting simulator session CMD")

	token := os.Getenv("SESSION_TOKEN")
	if token == "" {
		return fmt.Errorf("SESSION_TOKEN not set")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	log := logrus.WithField("cmd", "session")
	manager := simulator.NewManager(log, store.NewClient("", token))
	if warning := manager.Load(ctx); warning != "" {
		log.WithField("warning", warning).Warn("session started with degraded state")
	}

	feed := marketdata.NewBinanceClient(marketdata.GetConfig().BinanceBaseURL)
	if err := executors.StartLoop(ctx, manager, feed); err != nil {
		log.WithError(err).Error("refresh loop failed")
		return err
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := manager.Persist(flushCtx); err != nil {
		log.WithError(err).Error("final flush failed")
	}
	return nil
}

// refresherAction revalues every persisted account against the live feed.
func refresherAction(_ *cli.Context) error {
	logrus.Info("Starting valuation refresher CMD")

	ref := &refresher.Refresher{
		Log: logrus.WithField("cmd", "refresher"),
	}
	if err := ref.Start(); err != nil {
		logrus.WithError(err).Error("Starting refresher CMD")
		return err
	}

	return nil
}
