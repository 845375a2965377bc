package database

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          SERIAL PRIMARY KEY,
	name        VARCHAR(255) NOT NULL,
	email       VARCHAR(255) NOT NULL,
	password    VARCHAR(255) NOT NULL,
	phone       VARCHAR(50),
	avatar_url  VARCHAR(500),
	role        VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_key ON users (LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_role ON users (role);

CREATE TABLE IF NOT EXISTS complaints (
	id                SERIAL PRIMARY KEY,
	user_id           INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	name              VARCHAR(255) NOT NULL,
	location_lat      DECIMAL(10, 8) NOT NULL CHECK (location_lat BETWEEN -90 AND 90),
	location_lng      DECIMAL(11, 8) NOT NULL CHECK (location_lng BETWEEN -180 AND 180),
	location_address  TEXT,
	description       TEXT NOT NULL,
	photo_url         VARCHAR(500),
	status            VARCHAR(20) NOT NULL DEFAULT 'pending'
	                  CHECK (status IN ('pending', 'in_progress', 'resolved')),
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_complaints_user_id ON complaints (user_id);
CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);
CREATE INDEX IF NOT EXISTS idx_complaints_location ON complaints (location_lat, location_lng);
CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints (created_at DESC);

CREATE TABLE IF NOT EXISTS updates (
	id           SERIAL PRIMARY KEY,
	title        VARCHAR(255) NOT NULL,
	description  TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE OR REPLACE FUNCTION touch_updated_at() RETURNS TRIGGER AS $$
BEGIN
	NEW.updated_at = NOW();
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS users_touch_updated_at ON users;
CREATE TRIGGER users_touch_updated_at BEFORE UPDATE ON users
	FOR EACH ROW EXECUTE FUNCTION touch_updated_at();

DROP TRIGGER IF EXISTS complaints_touch_updated_at ON complaints;
CREATE TRIGGER complaints_touch_updated_at BEFORE UPDATE ON complaints
	FOR EACH ROW EXECUTE FUNCTION touch_updated_at();
`

// EmailUniqueConstraint is the index that enforces case-insensitive email
// uniqueness.
const EmailUniqueConstraint = "users_email_lower_key"

// Migrate creates or refreshes the schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
