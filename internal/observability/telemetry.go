package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/fpl-mcp/internal/config"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

// Telemetry owns the process-wide tracing, log export and profiling hooks.
type Telemetry struct {
	logger  *logging.Logger
	closers []namedCloser
	pprof   net.Listener
}

type namedCloser struct {
	name  string
	close func(context.Context) error
}

// Start enables whatever the config turns on. Anything started before a
// failure is stopped again.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	if cfg.UptraceEnabled {
		t.startUptrace(cfg)
	} else {
		logging.SetMirror(nil)
		logger.Debug("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
	}

	if cfg.PyroscopeEnabled {
		if err := t.startPyroscope(cfg); err != nil {
			_ = t.Shutdown(context.Background())
			return nil, fmt.Errorf("start pyroscope: %w", err)
		}
	}

	if cfg.PprofEnabled {
		if err := t.startPprof(cfg.PprofAddr); err != nil {
			_ = t.Shutdown(context.Background())
			return nil, fmt.Errorf("start pprof: %w", err)
		}
	}

	return t, nil
}

// PprofAddr is the bound pprof address, empty when pprof is off.
func (t *Telemetry) PprofAddr() string {
	if t.pprof == nil {
		return ""
	}
	return t.pprof.Addr().String()
}

// Shutdown stops everything in reverse start order.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(t.closers) - 1; i >= 0; i-- {
		c := t.closers[i]
		if err := c.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", c.name, err))
		}
	}
	t.closers = nil
	return errors.Join(errs...)
}

func (t *Telemetry) startUptrace(cfg config.Config) {
	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion))
	}

	t.logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)
	t.closers = append(t.closers, namedCloser{name: "uptrace", close: func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}})
}

func (t *Telemetry) startPyroscope(cfg config.Config) error {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":       cfg.AppEnv,
			"service":   cfg.ServiceName,
			"transport": cfg.Transport,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return err
	}

	t.logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	t.closers = append(t.closers, namedCloser{name: "pyroscope", close: func(context.Context) error {
		return profiler.Stop()
	}})
	return nil
}

func (t *Telemetry) startPprof(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	t.pprof = ln
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("pprof server failed", "error", err)
		}
	}()

	t.logger.Info("pprof server started", "addr", ln.Addr().String())
	t.closers = append(t.closers, namedCloser{name: "pprof", close: srv.Shutdown})
	return nil
}
