package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"anoa.com/userdirectory/internal/entity"
	"anoa.com/userdirectory/internal/modules/user/dto"
	"anoa.com/userdirectory/internal/modules/user/repository"
	"anoa.com/userdirectory/pkg/apperror"
	"anoa.com/userdirectory/pkg/password"
	"anoa.com/userdirectory/pkg/storage"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id uint) (*dto.UserResponse, error)
	Me(ctx context.Context, user *entity.User) (*dto.UserResponse, error)
	Create(ctx context.Context, input dto.CreateUserInput, createdByID uint) (uint, error)
	Delete(ctx context.Context, id uint) error
	Replace(ctx context.Context, id uint, input dto.ReplaceUserInput) error
	Update(ctx context.Context, id uint, input dto.PatchUserInput) error
	CountByMinute(ctx context.Context, day string, hour int) ([]dto.TimeBucket, error)
	CountByHour(ctx context.Context, day string) ([]dto.TimeBucket, error)
}

type Option func(*userService)

// WithLocation sets the zone used for day boundaries, bucket labels and
// created_at formatting. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *userService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type userService struct {
	repo      repository.UserRepository
	files     storage.FileStore
	hasher    password.Hasher
	log       *slog.Logger
	sanitizer *bluemonday.Policy
	loc       *time.Location
}

func NewUserService(repo repository.UserRepository, files storage.FileStore, hasher password.Hasher, log *slog.Logger, opts ...Option) UserService {
	s := &userService{
		repo:      repo,
		files:     files,
		hasher:    hasher,
		log:       log,
		sanitizer: bluemonday.StrictPolicy(),
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	res := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		var createdBy *string
		if u.CreatedByID != nil {
			if name, ok := names[*u.CreatedByID]; ok {
				createdBy = &name
			}
		}
		res = append(res, dto.NewUserResponse(u, createdBy, s.loc))
	}
	return res, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, user)
}

func (s *userService) Me(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	return s.toResponse(ctx, user)
}

func (s *userService) Create(ctx context.Context, input dto.CreateUserInput, createdByID uint) (uint, error) {
	if err := checkBirthYear(input.BirthYear); err != nil {
		return 0, err
	}
	name, err := s.cleanName(input.Name)
	if err != nil {
		return 0, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return 0, err
	}

	user := &entity.User{
		Name:      name,
		BirthYear: input.BirthYear,
		Gender:    input.Gender,
		IsAdmin:   input.IsAdmin,
		Password:  hash,
	}
	if createdByID != 0 {
		user.CreatedByID = &createdByID
	}

	if hasContent(input.AvatarBase64) {
		path, err := s.files.SaveBase64(ctx, *input.AvatarBase64)
		if err != nil {
			return 0, storageError(err)
		}
		user.AvatarPath = &path
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if user.AvatarPath != nil {
			s.discardFile(ctx, *user.AvatarPath)
		}
		if repository.IsUniqueViolation(err) {
			return 0, apperror.UsernameTaken(name, err)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user created", "user_id", user.ID, "created_by", createdByID)
	return user.ID, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if user.AvatarPath != nil {
		if err := s.files.DeleteFile(ctx, *user.AvatarPath); err != nil {
			return storageError(err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.UserNotFound(id)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *userService) Replace(ctx context.Context, id uint, input dto.ReplaceUserInput) error {
	if err := checkBirthYear(input.BirthYear); err != nil {
		return err
	}
	name, err := s.cleanName(input.Name)
	if err != nil {
		return err
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	changes := userChanges{
		name:      &name,
		birthYear: &input.BirthYear,
		gender:    &input.Gender,
		isAdmin:   &input.IsAdmin,
	}
	if input.Password != "" {
		if err := s.setPassword(&changes, input.Password); err != nil {
			return err
		}
	}
	stale, err := s.setAvatar(ctx, &changes, user, input.AvatarBase64)
	if err != nil {
		return err
	}

	return s.apply(ctx, id, changes, stale)
}

// Update applies a partial change. An empty avatar_base64 removes the avatar.
func (s *userService) Update(ctx context.Context, id uint, input dto.PatchUserInput) error {
	var changes userChanges

	if input.BirthYear != nil {
		if err := checkBirthYear(*input.BirthYear); err != nil {
			return err
		}
		changes.birthYear = input.BirthYear
	}
	if input.Name != nil {
		name, err := s.cleanName(*input.Name)
		if err != nil {
			return err
		}
		changes.name = &name
	}
	changes.gender = input.Gender
	changes.isAdmin = input.IsAdmin

	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if input.Password != nil && *input.Password != "" {
		if err := s.setPassword(&changes, *input.Password); err != nil {
			return err
		}
	}
	var stale *string
	if input.AvatarBase64 != nil {
		if stale, err = s.setAvatar(ctx, &changes, user, input.AvatarBase64); err != nil {
			return err
		}
	}

	return s.apply(ctx, id, changes, stale)
}

func (s *userService) CountByMinute(ctx context.Context, day string, hour int) ([]dto.TimeBucket, error) {
	if hour < 0 || hour > 23 {
		return nil, apperror.Validation([]apperror.FieldError{{
			Field:   "hour",
			Tag:     "range",
			Message: "hour must be between 0 and 23",
		}})
	}
	start, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}
	start = start.Add(time.Duration(hour) * time.Hour)

	rows, err := s.repo.CountCreatedPerMinute(ctx, start, start.Add(time.Hour))
	if err != nil {
		return nil, fmt.Errorf("count users by minute: %w", err)
	}
	return s.buckets(rows, "15:04"), nil
}

func (s *userService) CountByHour(ctx context.Context, day string) ([]dto.TimeBucket, error) {
	start, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.CountCreatedPerMinute(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("count users by hour: %w", err)
	}
	return s.buckets(rows, "15"), nil
}

func (s *userService) find(ctx context.Context, id uint) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.UserNotFound(id)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) toResponse(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	var createdBy *string
	if user.CreatedByID != nil {
		creator, err := s.repo.FindByID(ctx, *user.CreatedByID)
		switch {
		case err == nil:
			createdBy = &creator.Name
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("find creator: %w", err)
		}
	}
	res := dto.NewUserResponse(user, createdBy, s.loc)
	return &res, nil
}

func (s *userService) cleanName(raw string) (string, error) {
	name := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(raw)))
	if name == "" {
		return "", apperror.Validation([]apperror.FieldError{{
			Field:   "name",
			Tag:     "required",
			Message: "name is required",
		}})
	}
	return name, nil
}

func (s *userService) hashPassword(plain string) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", passwordTooLong()
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", passwordTooLong()
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *userService) setPassword(changes *userChanges, plain string) error {
	hash, err := s.hashPassword(plain)
	if err != nil {
		return err
	}
	changes.password = &hash
	return nil
}

// setAvatar stages the avatar change: new content is saved under a fresh
// name, nil or empty content clears the avatar. It returns the current file,
// which apply removes once the row is updated.
func (s *userService) setAvatar(ctx context.Context, changes *userChanges, user *entity.User, content *string) (*string, error) {
	if !hasContent(content) {
		if user.AvatarPath == nil {
			return nil, nil
		}
		changes.avatarSet = true
		changes.avatar = nil
		return user.AvatarPath, nil
	}

	path, err := s.files.SaveBase64(ctx, *content)
	if err != nil {
		return nil, storageError(err)
	}
	changes.avatarSet = true
	changes.avatar = &path
	return user.AvatarPath, nil
}

// apply writes the changes. On failure only the newly saved avatar is
// removed; on success the replaced one (stale) is.
func (s *userService) apply(ctx context.Context, id uint, changes userChanges, stale *string) error {
	if err := s.repo.Update(ctx, id, changes.columns()); err != nil {
		if changes.avatar != nil {
			s.discardFile(ctx, *changes.avatar)
		}
		switch {
		case repository.IsUniqueViolation(err) && changes.name != nil:
			return apperror.UsernameTaken(*changes.name, err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apperror.UserNotFound(id)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if stale != nil {
		s.discardFile(ctx, *stale)
	}

	s.log.InfoContext(ctx, "user updated", "user_id", id)
	return nil
}

// discardFile removes an avatar no row points to.
func (s *userService) discardFile(ctx context.Context, path string) {
	if err := s.files.DeleteFile(ctx, path); err != nil {
		s.log.WarnContext(ctx, "failed to remove orphaned avatar", "path", path, "error", err)
	}
}

func (s *userService) parseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dto.DayLayout, day, s.loc)
	if err != nil {
		return time.Time{}, apperror.Validation([]apperror.FieldError{{
			Field:   "day",
			Tag:     "format",
			Message: "day must be formatted as YYYY-MM-DD",
		}})
	}
	return t, nil
}

// buckets labels the per-minute rows in s.loc and sums rows that share a
// label, keeping the order in which labels first appear.
func (s *userService) buckets(rows []repository.TimeCount, layout string) []dto.TimeBucket {
	out := make([]dto.TimeBucket, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		label := row.Bucket.In(s.loc).Format(layout)
		if i, ok := index[label]; ok {
			out[i].Count += row.Total
			continue
		}
		index[label] = len(out)
		out = append(out, dto.TimeBucket{Label: label, Count: row.Total})
	}
	return out
}

func checkBirthYear(year int) error {
	if year < entity.MinBirthYear || year > entity.MaxBirthYear {
		return apperror.InvalidBirthYear(year, entity.MinBirthYear, entity.MaxBirthYear)
	}
	return nil
}

func passwordTooLong() error {
	return apperror.Validation([]apperror.FieldError{{
		Field:   "password",
		Tag:     "max",
		Message: fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes),
	}})
}

func hasContent(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func storageError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Storage(err)
}
