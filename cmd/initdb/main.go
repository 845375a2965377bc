// Command initdb creates the schema and optionally loads demo data.
package main

import (
	"context"
	"flag"

	"github.com/jackc/pgx/v5"

	"github.com/Alikh-collab/TAZA-back/internal/config"
	"github.com/Alikh-collab/TAZA-back/internal/database"
	"github.com/Alikh-collab/TAZA-back/internal/log"
	"github.com/Alikh-collab/TAZA-back/internal/security"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo accounts, complaints and updates")
	adminPassword := flag.String("admin-password", "admin123", "password of the seeded admin account")
	userPassword := flag.String("user-password", "user123", "password of the seeded user account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Log.Level)
	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	var accounts database.SeedAccounts
	if *seed {
		hasher := security.NewPasswordHasher(cfg.Security.PasswordScheme, cfg.Security.BcryptCost)
		if accounts.AdminPasswordHash, err = hasher.Hash(*adminPassword); err != nil {
			logger.Fatal().Err(err).Msg("hash admin password")
		}
		if accounts.UserPasswordHash, err = hasher.Hash(*userPassword); err != nil {
			logger.Fatal().Err(err).Msg("hash user password")
		}
	}

	err = database.WithTx(ctx, pool, func(tx pgx.Tx) error {
		if err := database.Migrate(ctx, tx); err != nil {
			return err
		}
		if !*seed {
			return nil
		}
		return database.Seed(ctx, tx, accounts)
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}

	logger.Info().
		Bool("seeded", *seed).
		Msg("database ready")
	if *seed {
		logger.Info().
			Str("admin", database.SeedAdminEmail).
			Str("user", database.SeedUserEmail).
			Msg("demo accounts available")
	}
}
