package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-kit/log/level"

	managersvc "github.com/vitsai/ray/nodemanager/service"
)

func main() {
	args := parseCliArgs()

	logger := setupLogger(args)

	table, configTable, closeStorage := setupStorage(args, logger)
	engine := setupEngine(args, logger, table, configTable)
	service := managersvc.New(engine, logger)

	wg := sync.WaitGroup{}

	_, closeGRPCServer := setupGRPCServer(&wg, args, service, logger)
	_, closeDebugServer := setupDebugServer(&wg, args, engine, service, logger)

	// Components must be shut down in this order: stop accepting new work
	// before tearing down the storage it depends on.
	shutdownOrder := []shutdownFunc{
		closeDebugServer,
		closeGRPCServer,
		closeStorage,
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-interrupt

	level.Info(logger).Log("msg", "received interrupt signal, shutting down")

	for _, f := range shutdownOrder {
		if err := f(context.Background()); err != nil {
			level.Error(logger).Log("msg", "failed to shut down component", "err", err)
		}
	}

	wg.Wait()
}
