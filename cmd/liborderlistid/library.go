package main

import (
	"math"
	"os"
	"strings"
	"unsafe"

	"github.com/Aidin1998/finalex-ids/internal/config"
	"github.com/Aidin1998/finalex-ids/internal/registry"
	"github.com/Aidin1998/finalex-ids/pkg/identifiers"
	"github.com/Aidin1998/finalex-ids/pkg/logger"
	"github.com/Aidin1998/finalex-ids/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// library is the process-wide state behind the exported C functions
type library struct {
	logger  *zap.Logger
	handles *registry.Registry
	metrics *metrics.Server
}

// newLibrary loads configuration from paths, falling back to defaults when
// it cannot be read, and logs to sink
func newLibrary(paths []string, sink zapcore.WriteSyncer) *library {
	var options registry.Config

	bootLogger, _ := logger.NewLoggerWithSink("warn", "json", sink)
	l := &library{logger: bootLogger}

	cfg, err := config.LoadConfig(bootLogger, paths...)
	if err != nil {
		bootLogger.Warn("Falling back to default configuration", zap.Error(err))
	} else {
		options = cfg.RegistryOptions()
		if log, err := logger.NewLoggerWithSink(cfg.Logging.Level, cfg.Logging.Format, sink); err == nil {
			l.logger = log
		}
		if cfg.Metrics.Listen != "" {
			l.metrics, err = metrics.Serve(cfg.Metrics.Listen, l.logger)
			if err != nil {
				l.logger.Warn("Metrics endpoint disabled", zap.String("listen", cfg.Metrics.Listen), zap.Error(err))
			}
		}
	}

	l.handles = registry.NewRegistry(options, l.logger)
	return l
}

// configPaths honours FINALEX_CONFIG, a comma separated list of files
func configPaths() []string {
	v := os.Getenv(config.EnvPrefix + "_CONFIG")
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// newHandle exports the text of src and returns its handle, or 0 when src
// breaks the boundary contract or the registry is full
func (l *library) newHandle(src identifiers.ForeignString) uint64 {
	id, err := identifiers.OrderListIDFromForeign(src)
	if err != nil {
		l.logger.Warn("Rejected foreign order list id", zap.Error(err))
		return 0
	}
	h, err := l.handles.Export(id)
	if err != nil {
		return 0
	}
	return uint64(h)
}

// freeHandle releases h; the registry logs unknown and repeated releases
func (l *library) freeHandle(h uint64) {
	_ = l.handles.Release(registry.Handle(h))
}

// foreignBytes views n bytes at p. A NULL pointer, or a length no Go slice
// can hold, reads as a dead handle.
func foreignBytes(p unsafe.Pointer, n uint64) ([]byte, bool) {
	if p == nil || n > math.MaxInt {
		return nil, false
	}
	if n == 0 {
		return []byte{}, true
	}
	return unsafe.Slice((*byte)(p), int(n)), true
}
