package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/kikgo"
	"github.com/hupe1980/kikgo/chunkstore"
	"github.com/hupe1980/kikgo/codec"
	"github.com/hupe1980/kikgo/resource"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v      *viper.Viper
	cfg    Config
	logger *kikgo.Logger

	rc *resource.Controller
}

func (a *app) resources() *resource.Controller {
	if a.rc == nil {
		a.rc = a.cfg.resources()
	}
	return a.rc
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "kikgo",
		Short: "Index EBSD patterns against simulated dictionaries.",
		Long: `kikgo stores pattern arrays in local, S3 or MinIO chunk stores and matches
experimental patterns against dictionaries of simulated patterns using
similarity metrics such as zero-mean normalized cross-correlation (zncc) and
the normalized dot product (ndp).`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE:  a.setup,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to config file (default .kikgo.yaml in . or $HOME)")
	flags.String("store", storeLocal, "Blob store: local or s3 or minio")
	flags.String("store-path", ".kikgo", "Root directory of the local store")
	flags.String("bucket", "", "Bucket of the s3 or minio store")
	flags.String("prefix", "", "Key prefix inside the bucket")
	flags.String("endpoint", "", "Endpoint of an S3-compatible service")
	flags.String("region", "", "AWS region of the s3 store")
	flags.String("access-key", "", "Access key of the minio store")
	flags.String("secret-key", "", "Secret key of the minio store")
	flags.Bool("secure", true, "Use HTTPS for the minio store")
	flags.String("compression", "lz4", "Chunk compression for new arrays: none or lz4 or zstd")
	flags.String("manifest-codec", codec.Default.Name(), "JSON codec for array manifests: go-json or json")
	flags.Int("chunk-elems", chunkstore.DefaultChunkElems, "Target values per stored chunk")
	flags.Int("cache-size", chunkstore.DefaultCacheSize, "Decoded chunks kept in memory (negative disables)")
	flags.String("log-level", "warn", "Log level: debug or info or warn or error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.Int64("workers", 0, "Chunks processed concurrently (0 = GOMAXPROCS)")
	flags.Int64("memory-limit", 0, "Bytes of chunk data held in flight (0 = unlimited)")
	flags.Int64("io-limit", 0, "Bytes per second read from the store (0 = unlimited)")
	cobra.CheckErr(a.v.BindPFlags(flags))

	root.AddCommand(
		a.metricsCmd(),
		a.importCmd(),
		a.listCmd(),
		a.deleteCmd(),
		a.matchCmd(),
	)
	return root
}

// setup merges defaults, config file, environment and flags into a.cfg.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v := a.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".kikgo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := a.cfg.validate(); err != nil {
		return err
	}

	lvl, _ := a.cfg.level()
	opts := &slog.HandlerOptions{Level: lvl}
	if a.cfg.LogFormat == "json" {
		a.logger = kikgo.NewLogger(slog.NewJSONHandler(cmd.ErrOrStderr(), opts))
	} else {
		a.logger = kikgo.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
	}
	return nil
}
