package main

import (
	"context"
	"database/sql"

	"lexio/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule proxies Nakama initialization to the nakama adapter package.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}

// main is unused: this package is compiled with -buildmode=plugin and Nakama
// loads it via InitModule. It exists so plain `go build` succeeds.
func main() {}
