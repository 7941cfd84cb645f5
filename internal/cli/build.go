package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/blob"
	"github.com/unkn0wn-root/seniority/blob/minio"
	"github.com/unkn0wn-root/seniority/blob/s3"
	"github.com/unkn0wn-root/seniority/codec"
	asynchook "github.com/unkn0wn-root/seniority/hooks/async"
	"github.com/unkn0wn-root/seniority/hooks/prom"
	zaplog "github.com/unkn0wn-root/seniority/log/zap"
	pr "github.com/unkn0wn-root/seniority/provider"
	"github.com/unkn0wn-root/seniority/provider/bigcache"
	"github.com/unkn0wn-root/seniority/provider/redis"
	"github.com/unkn0wn-root/seniority/provider/ristretto"
	"github.com/unkn0wn-root/seniority/seniorpb"
	"github.com/unkn0wn-root/seniority/sloghooks"
	"github.com/unkn0wn-root/seniority/trigger"
)

func newZap(c *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	var zc zap.Config
	switch c.Log.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// openProvider connects the configured cache backend. "none" returns nil.
func openProvider(ctx context.Context, c *Config) (pr.Provider, error) {
	switch c.Cache.Backend {
	case "redis":
		p, err := redis.Open(ctx, redis.Dial{
			Addrs:        c.Redis.Addrs,
			Username:     c.Redis.Username,
			Password:     c.Redis.Password,
			DB:           c.Redis.DB,
			DialTimeout:  c.Redis.DialTimeout,
			ReadTimeout:  c.Redis.ReadTimeout,
			WriteTimeout: c.Redis.WriteTimeout,
			PoolSize:     c.Redis.PoolSize,
		})
		return p, errors.Wrap(err, "connecting to redis")
	case "ristretto":
		return ristretto.New(ristretto.Config{
			NumCounters: c.Ristretto.NumCounters,
			MaxCost:     c.Ristretto.MaxCost,
			BufferItems: 64,
		})
	case "bigcache":
		return bigcache.New(ctx, bigcache.Config{
			LifeWindow:         c.BigCache.LifeWindow,
			HardMaxCacheSizeMB: c.BigCache.MaxSizeMB,
		})
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
}

func openStore(c *Config) (blob.Store, error) {
	switch c.Blob.Backend {
	case "s3":
		return s3.New(s3.Config{
			Region:         c.Blob.S3Region,
			Endpoint:       c.Blob.S3Endpoint,
			ForcePathStyle: c.Blob.S3PathStyle,
		})
	case "minio":
		return minio.New(minio.Config{
			Endpoint:  c.Blob.MinioEndpoint,
			AccessKey: c.Blob.MinioAccessKey,
			SecretKey: c.Blob.MinioSecretKey,
			UseSSL:    c.Blob.MinioSSL,
			Region:    c.Blob.S3Region,
		})
	default:
		return nil, fmt.Errorf("blob.backend: unknown backend %q", c.Blob.Backend)
	}
}

// env owns every long-lived client a command uses. close releases them in
// reverse order of acquisition.
type env struct {
	cfg     *Config
	stderr  io.Writer
	zap     *zap.Logger
	log     seniority.Logger
	closers []func()
}

func newEnv(c *Config, stderr io.Writer) (*env, error) {
	zl, err := newZap(c)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: c, stderr: stderr, zap: zl, log: zaplog.New(zl)}
	e.onClose(func() { _ = zl.Sync() })
	return e, nil
}

func (e *env) onClose(f func()) { e.closers = append(e.closers, f) }

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// hooks builds the event hooks: slog logging always, Prometheus when
// metrics.addr is set, all behind an async queue.
func (e *env) hooks() (seniority.Hooks, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.cfg.Log.Level)); err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	sl := slog.New(slog.NewJSONHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	var inner seniority.Hooks = sloghooks.New(sl, sloghooks.Options{
		SelfHealEvery:    10,
		LookupErrorEvery: 100,
		WriteErrorEvery:  100,
	})
	if e.cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		ph, err := prom.New(reg)
		if err != nil {
			return nil, err
		}
		inner = fanout{inner, ph}
		e.serveMetrics(reg)
	}
	h := asynchook.New(inner, 1, e.cfg.Hooks.QueueSize)
	e.onClose(h.Close)
	return h, nil
}

func (e *env) serveMetrics(reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: e.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.log.Error("metrics server stopped", seniority.Fields{"err": err})
		}
	}()
	e.log.Info("serving metrics", seniority.Fields{"addr": e.cfg.Metrics.Addr})
	e.onClose(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
}

func (e *env) model() (*seniorpb.Client, error) {
	m, err := seniorpb.Dial(e.cfg.Model.Addr)
	if err != nil {
		return nil, err
	}
	e.onClose(func() { _ = m.Close() })
	return m, nil
}

func (e *env) keyCache(ctx context.Context, hooks seniority.Hooks) (seniority.KeyCache, error) {
	c := e.cfg
	p, err := openProvider(ctx, c)
	if err != nil {
		return nil, err
	}
	vc, err := codec.ByName[seniority.Level](c.Cache.Codec, c.Cache.MaxValue)
	if err != nil {
		return nil, err
	}
	opts := seniority.KeyCacheOptions{
		Provider:  p,
		Namespace: c.Cache.Namespace,
		Codec:     vc,
		TTL:       c.Cache.TTL,
		Logger:    e.log,
		Hooks:     hooks,
	}
	if p == nil {
		opts.Provider = nopProvider{}
		opts.Disabled = true
	}
	kc, err := seniority.NewKeyCache(opts)
	if err != nil {
		return nil, err
	}
	e.onClose(func() { _ = kc.Close(context.Background()) })
	return kc, nil
}

func (e *env) pipeline(ctx context.Context) (*seniority.Pipeline, error) {
	hooks, err := e.hooks()
	if err != nil {
		return nil, err
	}
	kc, err := e.keyCache(ctx, hooks)
	if err != nil {
		return nil, err
	}
	m, err := e.model()
	if err != nil {
		return nil, err
	}
	c := e.cfg
	return seniority.New(seniority.Options{
		Cache:             kc,
		Model:             m,
		Fields:            c.fields(),
		Logger:            e.log,
		Hooks:             hooks,
		InferenceTimeout:  c.Model.Timeout,
		LookupConcurrency: c.Pipeline.LookupConcurrency,
		WriteConcurrency:  c.Pipeline.WriteConcurrency,
	})
}

func (e *env) processor(ctx context.Context) (*trigger.Processor, error) {
	p, err := e.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	store, err := openStore(e.cfg)
	if err != nil {
		return nil, err
	}
	return &trigger.Processor{
		Pipeline:     p,
		Store:        store,
		OutputBucket: e.cfg.Output.Bucket,
		OutputPrefix: e.cfg.Output.Prefix,
		Logger:       e.log,
	}, nil
}

type nopProvider struct{}

func (nopProvider) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nopProvider) Set(context.Context, string, []byte, int64, time.Duration) (bool, error) {
	return false, nil
}
func (nopProvider) Del(context.Context, string) error { return nil }
func (nopProvider) Close(context.Context) error       { return nil }
