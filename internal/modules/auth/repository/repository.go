package repository

import (
	"context"

	"anoa.com/userdirectory/internal/entity"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(ctx context.Context, token *entity.Token) error
	FindByToken(ctx context.Context, token string) (*entity.Token, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *entity.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) FindByToken(ctx context.Context, token string) (*entity.Token, error) {
	var t entity.Token
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteByToken reports whether a row was removed.
func (r *tokenRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	res := r.db.WithContext(ctx).Where("token = ?", token).Delete(&entity.Token{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
