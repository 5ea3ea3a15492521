package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/combgames/assets"
	"github.com/robalobadob/combgames/internal/auth"
	"github.com/robalobadob/combgames/internal/catalog"
	"github.com/robalobadob/combgames/internal/database"
	"github.com/robalobadob/combgames/internal/game"
	"github.com/robalobadob/combgames/internal/httpserver"
	"github.com/robalobadob/combgames/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	ctx := context.Background()

	// Users always live in SQLite; STORE=memory only keeps definitions out of it.
	storeKind := strings.ToLower(getEnv("STORE", "sqlite"))
	dsn := getEnv("DB_PATH", "./data/cgt.db")
	if storeKind == "memory" {
		dsn = database.Memory
	}
	db, err := database.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", dsn).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	cat, err := catalog.New(ctx, game.New(), newStore(storeKind, db))
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}
	if seed, _ := strconv.ParseBool(getEnv("SEED", "true")); seed {
		data, err := assets.Seed()
		if err != nil {
			log.Fatal().Err(err).Msg("read seed")
		}
		if _, err := cat.Seed(ctx, data); err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
	}

	days, err := strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "14"))
	if err != nil || days <= 0 {
		days = 14
	}
	tokens := auth.Tokens{
		Secret: []byte(getEnv("JWT_SECRET", "dev_secret_change_me")),
		TTL:    time.Duration(days) * 24 * time.Hour,
	}

	srv := httpserver.New(cat, auth.NewUsers(db), tokens)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Str("store", storeKind).Int("games", len(cat.Names())).Msg("starting cgt server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func newStore(kind string, db *sql.DB) store.Store {
	switch kind {
	case "memory":
		return store.NewMemoryStore()
	case "sqlite":
		return store.NewSQLiteStore(db)
	default:
		log.Warn().Str("store", kind).Msg("unknown STORE, using sqlite")
		return store.NewSQLiteStore(db)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
