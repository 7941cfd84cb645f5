package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/codec"
	"github.com/unkn0wn-root/seniority/trigger"
)

const envPrefix = "SENIORITY"

// Config holds every setting of every command. Each command registers the
// subset it uses as flags; setAllConfig then layers env and config file
// values underneath.
type Config struct {
	Log struct {
		Level  string
		Format string
	}
	Cache struct {
		Backend   string
		Namespace string
		TTL       time.Duration
		Codec     string
		MaxValue  int
	}
	Redis struct {
		Addrs        []string
		Username     string
		Password     string
		DB           int
		DialTimeout  time.Duration
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		PoolSize     int
	}
	Ristretto struct {
		NumCounters int64
		MaxCost     int64
	}
	BigCache struct {
		LifeWindow time.Duration
		MaxSizeMB  int
	}
	Model struct {
		Addr    string
		Timeout time.Duration
	}
	Pipeline struct {
		OrganizationField string
		TitleField        string
		SeniorityField    string
		LookupConcurrency int
		WriteConcurrency  int
	}
	Blob struct {
		Backend        string
		S3Region       string
		S3Endpoint     string
		S3PathStyle    bool
		MinioEndpoint  string
		MinioAccessKey string
		MinioSecretKey string
		MinioSSL       bool
	}
	Output struct {
		Bucket string
		Prefix string
	}
	Metrics struct {
		Addr string
	}
	Hooks struct {
		QueueSize int
	}
	NATS trigger.NATSConfig
}

func defaultConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Cache.Backend = "redis"
	c.Cache.Codec = "text"
	c.Cache.MaxValue = 64
	c.Redis.Addrs = []string{"localhost:6379"}
	c.Redis.DialTimeout = 5 * time.Second
	c.Redis.ReadTimeout = 3 * time.Second
	c.Redis.WriteTimeout = 3 * time.Second
	c.Ristretto.NumCounters = 1e6
	c.Ristretto.MaxCost = 1e5
	c.BigCache.LifeWindow = 24 * time.Hour
	c.Model.Addr = "localhost:50051"
	c.Model.Timeout = 10 * time.Second
	c.Pipeline.OrganizationField = seniority.DefaultRecordFields.Organization
	c.Pipeline.TitleField = seniority.DefaultRecordFields.Title
	c.Pipeline.SeniorityField = seniority.DefaultRecordFields.Seniority
	c.Pipeline.LookupConcurrency = 16
	c.Pipeline.WriteConcurrency = 16
	c.Blob.Backend = "s3"
	c.Output.Bucket = trigger.DefaultOutputBucket
	c.Output.Prefix = trigger.DefaultOutputPrefix
	c.NATS.URL = "nats://localhost:4222"
	c.NATS.Stream = "SENIORITY"
	c.Hooks.QueueSize = 1024
	return c
}

func (c *Config) logFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Log.Level, "log.level", c.Log.Level, "Log level: debug, info, warn or error.")
	fs.StringVar(&c.Log.Format, "log.format", c.Log.Format, "Log encoding: json or console.")
}

func (c *Config) cacheFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Cache.Backend, "cache.backend", c.Cache.Backend, "Cache backend: redis, ristretto, bigcache or none.")
	fs.StringVar(&c.Cache.Namespace, "cache.namespace", c.Cache.Namespace, "Key prefix for cached levels (default \"seniority\").")
	fs.DurationVar(&c.Cache.TTL, "cache.ttl", c.Cache.TTL, "Expiry of cached levels; 0 keeps them forever.")
	fs.StringVar(&c.Cache.Codec, "cache.codec", c.Cache.Codec, "Value encoding: "+strings.Join(codec.Names, ", ")+".")
	fs.IntVar(&c.Cache.MaxValue, "cache.max-value", c.Cache.MaxValue, "Stored values larger than this many bytes are treated as corrupt; 0 disables.")

	fs.StringSliceVar(&c.Redis.Addrs, "redis.addrs", c.Redis.Addrs, "Redis addresses; more than one selects cluster mode.")
	fs.StringVar(&c.Redis.Username, "redis.username", c.Redis.Username, "Redis ACL username.")
	fs.StringVar(&c.Redis.Password, "redis.password", c.Redis.Password, "Redis password.")
	fs.IntVar(&c.Redis.DB, "redis.db", c.Redis.DB, "Redis database (single node only).")
	fs.DurationVar(&c.Redis.DialTimeout, "redis.dial-timeout", c.Redis.DialTimeout, "Redis dial timeout.")
	fs.DurationVar(&c.Redis.ReadTimeout, "redis.read-timeout", c.Redis.ReadTimeout, "Redis read timeout.")
	fs.DurationVar(&c.Redis.WriteTimeout, "redis.write-timeout", c.Redis.WriteTimeout, "Redis write timeout.")
	fs.IntVar(&c.Redis.PoolSize, "redis.pool-size", c.Redis.PoolSize, "Redis connection pool size; 0 uses the client default.")

	fs.Int64Var(&c.Ristretto.NumCounters, "ristretto.num-counters", c.Ristretto.NumCounters, "Ristretto admission counters.")
	fs.Int64Var(&c.Ristretto.MaxCost, "ristretto.max-cost", c.Ristretto.MaxCost, "Ristretto capacity in entries.")
	fs.DurationVar(&c.BigCache.LifeWindow, "bigcache.life-window", c.BigCache.LifeWindow, "BigCache entry lifetime.")
	fs.IntVar(&c.BigCache.MaxSizeMB, "bigcache.max-size-mb", c.BigCache.MaxSizeMB, "BigCache memory limit in MB; 0 is unlimited.")
}

func (c *Config) modelFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Model.Addr, "model.addr", c.Model.Addr, "SeniorityModel gRPC address.")
	fs.DurationVar(&c.Model.Timeout, "model.timeout", c.Model.Timeout, "Deadline of one inference call.")
}

func (c *Config) pipelineFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Pipeline.OrganizationField, "pipeline.organization-field", c.Pipeline.OrganizationField, "Record field holding the organization.")
	fs.StringVar(&c.Pipeline.TitleField, "pipeline.title-field", c.Pipeline.TitleField, "Record field holding the job title.")
	fs.StringVar(&c.Pipeline.SeniorityField, "pipeline.seniority-field", c.Pipeline.SeniorityField, "Record field the level is written to.")
	fs.IntVar(&c.Pipeline.LookupConcurrency, "pipeline.lookup-concurrency", c.Pipeline.LookupConcurrency, "Concurrent cache reads per batch.")
	fs.IntVar(&c.Pipeline.WriteConcurrency, "pipeline.write-concurrency", c.Pipeline.WriteConcurrency, "Concurrent cache writes per batch.")
	fs.IntVar(&c.Hooks.QueueSize, "hooks.queue-size", c.Hooks.QueueSize, "Buffered hook events before dropping.")
	fs.StringVar(&c.Metrics.Addr, "metrics.addr", c.Metrics.Addr, "Serve Prometheus metrics on this address; empty disables.")
}

func (c *Config) blobFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Blob.Backend, "blob.backend", c.Blob.Backend, "Object store: s3 or minio.")
	fs.StringVar(&c.Blob.S3Region, "blob.s3-region", c.Blob.S3Region, "AWS region.")
	fs.StringVar(&c.Blob.S3Endpoint, "blob.s3-endpoint", c.Blob.S3Endpoint, "S3 endpoint override.")
	fs.BoolVar(&c.Blob.S3PathStyle, "blob.s3-path-style", c.Blob.S3PathStyle, "Use path-style S3 addressing.")
	fs.StringVar(&c.Blob.MinioEndpoint, "blob.minio-endpoint", c.Blob.MinioEndpoint, "MinIO host:port.")
	fs.StringVar(&c.Blob.MinioAccessKey, "blob.minio-access-key", c.Blob.MinioAccessKey, "MinIO access key.")
	fs.StringVar(&c.Blob.MinioSecretKey, "blob.minio-secret-key", c.Blob.MinioSecretKey, "MinIO secret key.")
	fs.BoolVar(&c.Blob.MinioSSL, "blob.minio-ssl", c.Blob.MinioSSL, "Use TLS for MinIO.")
	fs.StringVar(&c.Output.Bucket, "output.bucket", c.Output.Bucket, "Bucket augmented objects are written to.")
	fs.StringVar(&c.Output.Prefix, "output.prefix", c.Output.Prefix, "Key prefix of augmented objects.")
}

func (c *Config) natsFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.NATS.URL, "nats.url", c.NATS.URL, "NATS server URL.")
	fs.StringVar(&c.NATS.Stream, "nats.stream", c.NATS.Stream, "JetStream stream carrying S3 event notifications.")
	fs.StringVar(&c.NATS.Subject, "nats.subject", c.NATS.Subject, "Subject to consume (default <stream>.events).")
	fs.StringVar(&c.NATS.Durable, "nats.durable", c.NATS.Durable, "Durable consumer name (default \"seniority\").")
}

func (c *Config) fields() seniority.RecordFields {
	return seniority.RecordFields{
		Organization: c.Pipeline.OrganizationField,
		Title:        c.Pipeline.TitleField,
		Seniority:    c.Pipeline.SeniorityField,
	}
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line, the
// environment, and a config file (if specified), and applies the configuration
// in that priority order.
//
// Environment variables are the upper-cased flag names with dashes and dots
// replaced by underscores, prefixed with SENIORITY_ (SENIORITY_REDIS_ADDRS).
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
		for _, key := range v.AllKeys() {
			if !validTags[key] {
				return fmt.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			// a slice from a config file is not a comma separated string
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			flagErr = sv.Replace(splitNonEmpty(value))
			return
		}
		flagErr = f.Value.Set(value)
	})
	return flagErr
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
