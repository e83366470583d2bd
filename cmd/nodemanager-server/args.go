package main

import (
	"flag"
	"strings"
)

type cliArgs struct {
	grpcBindAddr string

	debugBindAddr string

	rayVersion string

	etcdEndpoints string
	inMemory      bool

	maxDeadNodesCached int

	verbose bool
}

func parseCliArgs() cliArgs {
	args := cliArgs{}

	flag.StringVar(&args.grpcBindAddr, "grpc-bind-addr", ":6379", "address to bind the node manager grpc server")
	flag.StringVar(&args.debugBindAddr, "debug-bind-addr", ":6380", "address to bind the debug http endpoint")

	flag.StringVar(&args.rayVersion, "ray-version", "3.0.0", "ray version reported to CheckAlive callers")

	flag.StringVar(&args.etcdEndpoints, "etcd-endpoints", "", "comma-separated etcd endpoints; empty uses in-memory storage")
	flag.BoolVar(&args.inMemory, "in-memory", false, "force in-memory storage even if etcd-endpoints is set")

	flag.IntVar(&args.maxDeadNodesCached, "max-dead-nodes-cached", 1000, "dead-node cache capacity")

	flag.BoolVar(&args.verbose, "verbose", false, "verbose logging")

	flag.Parse()

	return args
}

func parseEtcdEndpoints(s string) []string {
	sl := strings.Split(s, ",")
	endpoints := make([]string, 0, len(sl))

	for _, e := range sl {
		trimmed := strings.TrimSpace(e)
		if trimmed != "" {
			endpoints = append(endpoints, trimmed)
		}
	}

	return endpoints
}
