package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"gamify-hexad/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Cada sugerencia es una sola transaccion corta por request.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// EnsureSchema crea las tablas del plugin si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}

// Schema contiene el DDL de las tablas de respuestas, perfiles, elementos y atribuciones.
const Schema = `
CREATE TABLE IF NOT EXISTS hexad_answers (
	user_id     TEXT NOT NULL,
	question_id INTEGER NOT NULL,
	score       INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, question_id)
);

CREATE TABLE IF NOT EXISTS hexad_profiles (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL UNIQUE,
	suggestion      TEXT NOT NULL,
	combined_scores TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS game_elements (
	id         TEXT PRIMARY KEY,
	course_id  TEXT NOT NULL,
	module_id  TEXT,
	type       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS game_elements_course_type_idx ON game_elements (course_id, type);

CREATE TABLE IF NOT EXISTS element_attributions (
	id              TEXT PRIMARY KEY,
	game_element_id TEXT NOT NULL REFERENCES game_elements(id) ON DELETE CASCADE,
	user_id         TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	UNIQUE (game_element_id, user_id)
);
`
