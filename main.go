package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anahumita/trivia-go-arena-play/internal/httpserver"
	"github.com/anahumita/trivia-go-arena-play/internal/questions"
	"github.com/anahumita/trivia-go-arena-play/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	pool, err := questions.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load question pack")
	}

	db, err := openDB(getEnv("DB_PATH", "./data/trivia.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// Prefer the admin-managed question bank; fall back to the static pack
	// when the table is empty.
	var src questions.Source
	sqlSrc := questions.NewSQLSource(db)
	if n, err := sqlSrc.Count(context.Background()); err == nil && n > 0 {
		log.Info().Int("questions", n).Msg("using database question bank")
		src = sqlSrc
	} else {
		log.Info().Int("questions", len(pool)).Msg("using embedded question pack")
		src = questions.NewPool(pool)
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, src, pool)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting trivia server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
