package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// schema statements are idempotent and applied in order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS app_user (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS workouts (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES app_user (id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		started_at   TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS workouts_user_started_idx ON workouts (user_id, started_at)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE CHECK (name <> ''),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS workout_exercises (
		id          TEXT PRIMARY KEY,
		workout_id  TEXT NOT NULL REFERENCES workouts (id) ON DELETE CASCADE,
		exercise_id TEXT NOT NULL REFERENCES exercises (id),
		"order"     INTEGER NOT NULL,
		UNIQUE (workout_id, "order")
	)`,
	`CREATE TABLE IF NOT EXISTS sets (
		id                  TEXT PRIMARY KEY,
		workout_exercise_id TEXT NOT NULL REFERENCES workout_exercises (id) ON DELETE CASCADE,
		reps                INTEGER NOT NULL,
		kilos               INTEGER NOT NULL,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS sets_workout_exercise_idx ON sets (workout_exercise_id)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		// no-op after commit
		_ = tx.Rollback(ctx)
	}()

	for i, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	log.Debugf("schema applied, %d statements", len(schema))
	return nil
}
