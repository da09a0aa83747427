package server

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/swapvault/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// Options are passed to the AppGenerator once the configuration and the
// command line flags are resolved.
type Options struct {
	Config     Config
	Logger     log.Logger
	Registerer prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using the node configuration
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// parseFlags overrides the configuration with the start command flags.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.StringVar(&conf.MetricsBind, flagMetrics, conf.MetricsBind, "address serving prometheus metrics, empty to disable")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	err := startFlags.Parse(args)
	return conf, err
}

// StartCmd initializes the application and serves it over the ABCI socket
// until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, conf Config, args []string) error {
	conf, err := parseFlags(conf, args)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	app, err := gen(&Options{Config: conf, Logger: logger, Registerer: registry})
	if err != nil {
		return err
	}

	var metrics *http.Server
	if conf.MetricsBind != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metrics = &http.Server{Addr: conf.MetricsBind, Handler: mux}
		go func() {
			logger.Info("Serving metrics", "bind", conf.MetricsBind)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrNetwork, "start server: %s", err)
	}

	// Wait forever
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down")
	if metrics != nil {
		_ = metrics.Close()
	}
	return svr.Stop()
}
