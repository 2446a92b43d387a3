// Command backendprobe checks that the backend is reachable and healthy.
//
// It loads configuration, signs in the configured identity, then calls
// GET /status and GET /health and prints both payloads as JSON. The exit
// status is 0 when both probes succeed, 1 when a probe fails and 2 on a
// usage or configuration error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/backendclient/component"
	"github.com/kbukum/backendclient/config"
	"github.com/kbukum/backendclient/diagnostic"
	"github.com/kbukum/backendclient/httpclient"
	"github.com/kbukum/backendclient/identity"
	"github.com/kbukum/backendclient/logger"
	"github.com/kbukum/backendclient/observability"
	"github.com/kbukum/backendclient/version"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2

	shutdownTimeout = 5 * time.Second
)

// report is written to stdout when both probes succeed.
type report struct {
	Status json.RawMessage `json:"status"`
	Health json.RawMessage `json:"health"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("backendprobe", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFile := flags.String("config", "", "path to config.yml (searched when empty)")
	envFile := flags.String("env", "", "path to .env file (searched when empty)")
	showVersion := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.Get())
		return exitOK
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "backendprobe: %v\n", err)
		return exitUsage
	}

	logOut := stderr
	if cfg.Logging.Output == "stdout" {
		logOut = stdout
	}
	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, logOut)
	logger.SetGlobalLogger(log)
	log.Debug("starting", logger.Fields("version", version.Get().Short(), "environment", cfg.Environment))

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Name, version.Version, cfg.Environment, cfg.Observability)
	if err != nil {
		log.Error("telemetry setup failed", logger.Fields(logger.FieldError, err.Error()))
		return exitUsage
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	client, stop, err := startClient(ctx, cfg, log)
	if err != nil {
		log.Error("client setup failed", logger.Fields(logger.FieldError, err.Error()))
		return exitUsage
	}
	defer stop()

	status, err := client.TestConnection(ctx)
	if err != nil {
		log.Error("connection test failed", logger.Fields(logger.FieldError, err.Error()))
		return exitFailed
	}
	log.Info("backend reachable", logger.Fields(logger.FieldPath, httpclient.StatusPath))

	health, err := client.HealthCheck(ctx)
	if err != nil {
		fields := logger.Fields(logger.FieldError, err.Error())
		if code := httpclient.StatusCode(err); code != 0 {
			fields[logger.FieldStatusCode] = code
		}
		log.Error("health check failed", fields)
		return exitFailed
	}
	log.Info("backend healthy", logger.Fields(logger.FieldPath, httpclient.HealthPath))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report{Status: status, Health: health}); err != nil {
		log.Error("write report failed", logger.Fields(logger.FieldError, err.Error()))
		return exitFailed
	}
	return exitOK
}

// startClient builds the identity session, the diagnostic sinks and the
// client component, and starts it through a component registry.
func startClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (*httpclient.Client, func(), error) {
	session, err := identity.NewSessionFromConfig(ctx, cfg.Identity)
	if err != nil {
		return nil, nil, err
	}
	if id := session.CurrentIdentity(ctx); id != nil {
		log.Debug("identity signed in", logger.Fields(logger.FieldUserID, id.ID, "mode", cfg.Identity.Mode))
	}

	meter := observability.Meter()
	metricSink, err := diagnostic.NewMetricSink(meter)
	if err != nil {
		return nil, nil, err
	}
	clientMetrics, err := observability.NewClientMetrics(meter)
	if err != nil {
		return nil, nil, err
	}

	backend := cfg.Backend
	backend.Headers["User-Agent"] = version.UserAgent()

	comp := httpclient.NewComponent(backend,
		httpclient.WithIdentity(session),
		httpclient.WithDiagnostics(diagnostic.NewLogSink(log), metricSink),
		httpclient.WithMetrics(clientMetrics),
	)

	registry := component.NewRegistry(log)
	if err := registry.Register(comp); err != nil {
		return nil, nil, err
	}
	if err := registry.StartAll(ctx); err != nil {
		return nil, nil, err
	}

	stop := func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := registry.StopAll(sctx); err != nil {
			log.Warn("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}
	return comp.Client(), stop, nil
}
