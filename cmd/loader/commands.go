// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/biblioteca/internal/catalogload"
	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/config"
	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/migration"
	redisstore "github.com/taibuivan/biblioteca/internal/platform/redis"
	"github.com/taibuivan/biblioteca/pkg/query"
)

// dumpFiles are the file names the all command looks for in a dump directory.
var dumpFiles = map[catalogload.Entity]string{
	catalogload.Authors: "authors.json",
	catalogload.Books:   "books.json",
	catalogload.Lists:   "list.json",
	catalogload.Series:  "series.json",
}

// flags shared by every subcommand.
type flags struct {
	envFile   string
	noFlush   bool
	languages string
	append    bool
}

func newRootCommand(log *slog.Logger) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "loader",
		Short:         "Import catalog dumps into the Biblioteca store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.envFile, "env-file", config.DefaultEnvFile, "Optional dotenv file read before the environment")
	root.PersistentFlags().BoolVar(&f.noFlush, "no-flush", false, "Leave the catalog cache untouched after importing")

	load := &cobra.Command{
		Use:   "load ENTITY FILE",
		Short: "Import one NDJSON dump (FILE may be - for stdin)",
		Long: `Import one newline-delimited JSON dump into the authors, books, lists or series table.
The table is replaced unless --append is set. Books outside --languages are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := catalogload.ParseEntity(args[0])
			if err != nil {
				return err
			}
			return run(cmd, log, f, func(ctx context.Context, loader *catalogload.Loader) ([]catalogload.Stats, error) {
				stats, err := loadFile(ctx, loader, entity, args[1], cmd.InOrStdin())
				return []catalogload.Stats{stats}, err
			})
		},
	}

	all := &cobra.Command{
		Use:   "all DIR",
		Short: "Import every dump found in DIR (authors.json, books.json, list.json, series.json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, log, f, func(ctx context.Context, loader *catalogload.Loader) ([]catalogload.Stats, error) {
				return loadDir(ctx, log, loader, args[0])
			})
		},
	}

	for _, c := range []*cobra.Command{load, all} {
		c.Flags().StringVar(&f.languages, "languages", strings.Join(constants.CatalogLanguages, ","), "Comma-separated book language tags to keep; empty keeps all")
		c.Flags().BoolVar(&f.append, "append", false, "Keep existing rows instead of replacing the table")
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending catalog migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(f.envFile)
			if err != nil {
				return err
			}
			return migrateStore(cfg, log)
		},
	}

	root.AddCommand(load, all, migrate)
	return root
}

// run opens the store, performs the import and flushes the cache.
func run(cmd *cobra.Command, log *slog.Logger, f *flags, importFn func(context.Context, *catalogload.Loader) ([]catalogload.Stats, error)) error {
	ctx := cmd.Context()

	cfg, err := config.LoadFile(f.envFile)
	if err != nil {
		return err
	}

	if err := migrateStore(cfg, log); err != nil {
		return err
	}

	db, err := database.New(ctx, cfg.Database())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	options := catalogload.DefaultOptions()
	options.Languages = query.StringSlice(f.languages)
	options.Append = f.append

	stats, err := importFn(ctx, catalogload.New(db, log, options))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	for _, s := range stats {
		if err := encoder.Encode(s); err != nil {
			return err
		}
	}

	if f.noFlush || !cfg.CacheEnabled() {
		return nil
	}
	return flushCache(ctx, cfg, log)
}

// migrateStore applies the embedded migrations, creating the sqlite directory first.
func migrateStore(cfg *config.Config, log *slog.Logger) error {
	if err := cfg.Database().EnsureDir(); err != nil {
		return err
	}
	return migration.RunUp(cfg.Database(), log)
}

func loadFile(ctx context.Context, loader *catalogload.Loader, entity catalogload.Entity, path string, stdin io.Reader) (catalogload.Stats, error) {
	if path == "-" {
		return loader.Load(ctx, entity, stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return catalogload.Stats{Entity: entity}, fmt.Errorf("loader: %w", err)
	}
	defer file.Close()

	return loader.Load(ctx, entity, file)
}

func loadDir(ctx context.Context, log *slog.Logger, loader *catalogload.Loader, dir string) ([]catalogload.Stats, error) {
	var all []catalogload.Stats
	for _, entity := range catalogload.Entities {
		path := filepath.Join(dir, dumpFiles[entity])

		stats, err := loadFile(ctx, loader, entity, path, nil)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("catalog_dump_missing", slog.String("entity", string(entity)), slog.String("path", path))
			continue
		}
		if err != nil {
			return all, err
		}
		all = append(all, stats)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("loader: no dump files found in %s", dir)
	}
	return all, nil
}

func flushCache(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	if err := cache.NewRedis(rdb, cfg.CacheTTL).Flush(ctx); err != nil {
		return err
	}
	log.Info("catalog_cache_flushed")
	return nil
}
