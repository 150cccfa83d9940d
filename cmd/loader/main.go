// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command loader fills the catalog store from newline-delimited JSON dumps.
//
// It reads the same environment as the API (DATABASE_DRIVER, DATABASE_URL, REDIS_URL),
// applies the embedded migrations, imports the dumps and then flushes the catalog cache
// so the API stops serving pages computed from the previous import.
//
//	loader migrate
//	loader load books ./dumps/books.json --languages es-MX,spa
//	loader all ./dumps
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/biblioteca/internal/platform/constants"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil)).
		With(slog.String(constants.FieldApp, "biblioteca-loader"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(log).ExecuteContext(ctx); err != nil {
		log.Error("loader_failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
