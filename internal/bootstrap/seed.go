package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"anoa.com/userdirectory/internal/entity"
	"anoa.com/userdirectory/internal/modules/user/repository"
	"anoa.com/userdirectory/pkg/password"
	"gorm.io/gorm"
)

const (
	rootGender    = entity.GenderMale
	rootBirthYear = 2006
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Token{},
	)
}

// SeedRootUser creates the initial administrator unless a user with that
// name already exists. Empty credentials disable seeding.
func SeedRootUser(ctx context.Context, users repository.UserRepository, hasher password.Hasher, username, plain string, log *slog.Logger) error {
	if username == "" || plain == "" {
		log.Info("root credentials not configured, skipping seed")
		return nil
	}

	_, err := users.FindByName(ctx, username)
	if err == nil {
		log.Info("root user already exists, skipping seed", "username", username)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find root user: %w", err)
	}

	hash, err := hasher.Hash(plain)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	root := &entity.User{
		Name:      username,
		BirthYear: rootBirthYear,
		Gender:    rootGender,
		IsAdmin:   true,
		Password:  hash,
	}
	if err := users.Create(ctx, root); err != nil {
		return fmt.Errorf("create root user: %w", err)
	}

	log.Info("root user seeded", "username", username, "user_id", root.ID)
	return nil
}
