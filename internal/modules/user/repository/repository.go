package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/userdirectory/internal/entity"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// TimeCount is one row of a per-minute created_at histogram.
type TimeCount struct {
	Bucket time.Time
	Total  int64
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByName(ctx context.Context, name string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, id uint, columns map[string]any) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountCreatedPerMinute(ctx context.Context, from, to time.Time) ([]TimeCount, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// translated by gorm or raw from the postgres driver.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Omit("Tokens").Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update writes exactly the given columns. A nil value stores NULL.
func (r *userRepository) Update(ctx context.Context, id uint, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user together with every token it owns.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entity.Token{}).Error; err != nil {
			return fmt.Errorf("delete tokens: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&entity.User{})
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountCreatedPerMinute counts users created in [from, to) per minute, oldest
// first. Minute buckets do not depend on the session TimeZone; callers label
// and roll them up in their own zone.
func (r *userRepository) CountCreatedPerMinute(ctx context.Context, from, to time.Time) ([]TimeCount, error) {
	var rows []TimeCount
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Select("date_trunc('minute', created_at) AS bucket, count(id) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
