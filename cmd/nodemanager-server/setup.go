package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"

	"github.com/vitsai/ray/eventbus"
	"github.com/vitsai/ray/nodemanager"
	managerpb "github.com/vitsai/ray/nodemanager/proto"
	managersvc "github.com/vitsai/ray/nodemanager/service"
	"github.com/vitsai/ray/nodetable"
	"github.com/vitsai/ray/nodetable/etcd"
	"github.com/vitsai/ray/raylet/grpcclient"

	// registers the "proto" wire codec for every grpc call this process
	// makes or serves.
	_ "github.com/vitsai/ray/internal/rpcjson"
)

type shutdownFunc func(ctx context.Context) error

var noopShutdown = func(ctx context.Context) error { return nil }

func setupLogger(args cliArgs) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))

	if !args.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	return logger
}

func setupStorage(args cliArgs, logger kitlog.Logger) (nodemanager.NodeTable, nodemanager.InternalConfigTable, shutdownFunc) {
	endpoints := parseEtcdEndpoints(args.etcdEndpoints)

	if args.inMemory || len(endpoints) == 0 {
		level.Info(logger).Log("msg", "using in-memory node table")
		return nodetable.NewInMemory(), nodetable.NewInMemoryConfigTable(), noopShutdown
	}

	level.Info(logger).Log("msg", "using etcd node table", "endpoints", args.etcdEndpoints)

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to etcd: %v", err))
	}

	shutdown := func(ctx context.Context) error {
		return client.Close()
	}

	return etcd.New(client, logger), etcd.NewInternalConfigTable(client), shutdown
}

func setupEngine(args cliArgs, logger kitlog.Logger, table nodemanager.NodeTable, configTable nodemanager.InternalConfigTable) *nodemanager.Engine {
	cfg := nodemanager.DefaultConfig()
	cfg.Logger = logger
	cfg.MaxDeadNodesCached = args.maxDeadNodesCached
	cfg.NodeTable = table
	cfg.InternalConfigTable = configTable
	cfg.Publisher = eventbus.New(logger)
	cfg.RayletClientPool = grpcclient.New(logger)

	engine := nodemanager.NewEngine(nodemanager.NewClusterID(), args.rayVersion, cfg)

	if err := engine.Initialize(context.Background()); err != nil {
		panic(fmt.Sprintf("failed to initialize node manager: %v", err))
	}

	return engine
}

func setupGRPCServer(wg *sync.WaitGroup, args cliArgs, service *managersvc.Service, logger kitlog.Logger) (*grpc.Server, shutdownFunc) {
	grpcServer := grpc.NewServer()
	grpcServer.RegisterService(&managerpb.NodeManagerServiceDesc, service)

	wg.Add(1)

	go func() {
		defer wg.Done()

		listener, err := net.Listen("tcp", args.grpcBindAddr)
		if err != nil {
			panic(fmt.Sprintf("failed to create grpc listener: %v", err))
		}

		level.Info(logger).Log("msg", "grpc server listening", "addr", args.grpcBindAddr)

		if err := grpcServer.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			panic(fmt.Sprintf("failed to start grpc server: %v", err))
		}
	}()

	shutdown := func(ctx context.Context) error {
		level.Info(logger).Log("msg", "shutting down grpc server")
		grpcServer.GracefulStop()
		return nil
	}

	return grpcServer, shutdown
}

// setupDebugServer exposes Engine.Stats() as plain text, in the spirit of
// the original's HTTP debug page. No example repo in the pack carries a
// richer admin-HTTP dependency worth adopting for one read-only endpoint, so
// this stays on net/http.
func setupDebugServer(wg *sync.WaitGroup, args cliArgs, engine *nodemanager.Engine, service *managersvc.Service, logger kitlog.Logger) (*http.Server, shutdownFunc) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/node_manager", func(w http.ResponseWriter, r *http.Request) {
		stats := engine.Stats()
		fmt.Fprintf(w, "LiveNodes: %d\nDeadNodes: %d\nDeadCacheEntries: %d\n\n%s\n",
			stats.LiveNodes, stats.DeadNodes, stats.DeadCacheEntries, service.DebugString())
	})

	srv := &http.Server{Addr: args.debugBindAddr, Handler: mux}

	wg.Add(1)

	go func() {
		defer wg.Done()

		level.Info(logger).Log("msg", "debug server listening", "addr", args.debugBindAddr)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "debug server failed", "err", err)
		}
	}()

	shutdown := func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	}

	return srv, shutdown
}
