// Command invoke performs a one-shot management invocation against a set of
// nodes reachable over NATS.
//
// Nodes are given as comma-separated host:port pairs. The invocation target
// and strategy come from flags; credentials and the NATS URL come from the
// environment.
//
// Examples:
//
//	invoke -nodes 10.0.0.1:9999,10.0.0.2:9999 -cache userCache -component Stats -method GetHits
//	invoke -nodes 10.0.0.1:9999 -mode all -cache userCache -component DataPlacementManager \
//	    -method SetReplicationDegree -args '[2]' -signature int
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"

	"github.com/codewandler/mgmt-go/adapters/nats"
	"github.com/codewandler/mgmt-go/core/mgmt"
)

var (
	nodeList  = flag.String("nodes", getEnv("NODES", ""), "comma-separated host:port list")
	domain    = flag.String("domain", "org.cache", "management domain")
	cache     = flag.String("cache", "", "cache name")
	component = flag.String("component", "", "component name")
	method    = flag.String("method", "", "method to invoke")
	argsJSON  = flag.String("args", "[]", "arguments as a JSON array")
	signature = flag.String("signature", "", "comma-separated parameter type names")
	mode      = flag.String("mode", "any", "invocation strategy: single, any or all")
	prefix    = flag.String("prefix", "mgmt", "NATS subject prefix")
	verbose   = flag.Bool("v", false, "debug logging")
)

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, log); err != nil {
		log.Error("invoke failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	if *nodeList == "" {
		return fmt.Errorf("no nodes given (use -nodes or NODES)")
	}
	if *cache == "" || *component == "" || *method == "" {
		return fmt.Errorf("-cache, -component and -method are required")
	}

	nodes, err := parseNodes(*nodeList)
	if err != nil {
		return err
	}

	var args []any
	if err := json.Unmarshal([]byte(*argsJSON), &args); err != nil {
		return fmt.Errorf("parse -args: %w", err)
	}

	sig := mgmt.EmptySignature
	if *signature != "" {
		sig = strings.Split(*signature, ",")
	}

	dialer, err := nats.NewDialer(nats.DialerConfig{
		Connect:       nats.ConnectDefault(),
		Log:           log,
		SubjectPrefix: *prefix,
	})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer dialer.Close()

	actuator, err := mgmt.New(mgmt.Options{Log: log, Dialer: dialer})
	if err != nil {
		return err
	}
	for _, n := range nodes {
		actuator.AddNode(n)
	}

	inv := mgmt.Invocation{
		Domain:    *domain,
		CacheName: *cache,
		Component: *component,
		Method:    *method,
		Args:      args,
		Signature: sig,
	}

	switch *mode {
	case "single":
		result, err := actuator.InvokeInNode(ctx, nodes[0], inv)
		if err != nil {
			return err
		}
		return printResult(os.Stdout, result)

	case "any":
		result, err := actuator.InvokeOnceInAnyNode(ctx, inv)
		if err != nil {
			return err
		}
		return printResult(os.Stdout, result)

	case "all":
		results, err := actuator.InvokeInAllNodes(ctx, inv)
		if err != nil {
			return err
		}
		for node, result := range results {
			if mgmt.IsInvokeError(result) {
				fmt.Printf("%s\terror\n", node.Addr())
				continue
			}
			out, err := json.Marshal(result)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", node.Addr(), out)
		}
		return nil

	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
}

func parseNodes(list string) ([]mgmt.Node, error) {
	username := getEnv("MGMT_USERNAME", "")
	password := getEnv("MGMT_PASSWORD", "")

	var nodes []mgmt.Node
	for _, addr := range strings.Split(list, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("parse node %q: %w", addr, err)
		}
		nodes = append(nodes, mgmt.Node{
			Host:     host,
			Port:     port,
			Username: username,
			Password: password,
		})
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes given")
	}
	return nodes, nil
}

func printResult(w *os.File, result any) error {
	out, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
