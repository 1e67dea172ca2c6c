package tipmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name TEXT NOT NULL DEFAULT '',
					handle TEXT NOT NULL DEFAULT '',
					avatar_url TEXT NOT NULL DEFAULT '',
					verified BOOLEAN NOT NULL DEFAULT FALSE
				);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tips (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL REFERENCES users(id),
					sport TEXT NOT NULL,
					odds TEXT NOT NULL DEFAULT '',
					game_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					status TEXT NOT NULL DEFAULT 'pending',
					verified_at TIMESTAMPTZ,
					verified_by UUID,
					game_finished BOOLEAN NOT NULL DEFAULT FALSE
				);
				CREATE INDEX IF NOT EXISTS idx_tips_user_id ON tips(user_id);
				CREATE INDEX IF NOT EXISTS idx_tips_status ON tips(status);
			`); err != nil {
				return fmt.Errorf("failed to create tips table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS verifications (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					tip_id UUID NOT NULL REFERENCES tips(id),
					tipster_id UUID NOT NULL,
					status TEXT NOT NULL,
					admin_id UUID NOT NULL,
					verified_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					note TEXT NOT NULL DEFAULT ''
				);
				CREATE INDEX IF NOT EXISTS idx_verifications_tip_id ON verifications(tip_id);
				CREATE INDEX IF NOT EXISTS idx_verifications_tipster_id ON verifications(tipster_id);
			`); err != nil {
				return fmt.Errorf("failed to create verifications table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS verifications;
			DROP TABLE IF EXISTS tips;
			DROP TABLE IF EXISTS users;
		`)
		return err
	})
}
