package service

import (
	"context"
	"fmt"
)

// UserCounter is the part of the user repository the stats need.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type StatService interface {
	GetTotalUsers(ctx context.Context) (int64, error)
}

type statService struct {
	users UserCounter
}

func NewStatService(users UserCounter) StatService {
	return &statService{users: users}
}

func (s *statService) GetTotalUsers(ctx context.Context) (int64, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
