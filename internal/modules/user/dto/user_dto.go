package dto

import (
	"time"

	"anoa.com/userdirectory/internal/entity"
)

// CreatedAtLayout is the response format of created_at.
const CreatedAtLayout = "02-01-2006 15:04"

// DayLayout is the format of the day query parameter.
const DayLayout = "2006-01-02"

type CreateUserInput struct {
	Name         string        `json:"name" binding:"required,max=255"`
	BirthYear    int           `json:"birth_year" binding:"required"`
	Gender       entity.Gender `json:"gender" binding:"required,gender"`
	IsAdmin      bool          `json:"is_admin"`
	AvatarBase64 *string       `json:"avatar_base64"`
	Password     string        `json:"password" binding:"required,max=72"`
}

// ReplaceUserInput is a full replacement. Missing optional fields reset to
// their defaults: is_admin to false and the avatar to none. An empty password
// keeps the current one.
type ReplaceUserInput struct {
	Name         string        `json:"name" binding:"required,max=255"`
	BirthYear    int           `json:"birth_year" binding:"required"`
	Gender       entity.Gender `json:"gender" binding:"required,gender"`
	IsAdmin      bool          `json:"is_admin"`
	AvatarBase64 *string       `json:"avatar_base64"`
	Password     string        `json:"password" binding:"omitempty,max=72"`
}

// PatchUserInput applies only the fields that are present.
type PatchUserInput struct {
	Name         *string        `json:"name" binding:"omitempty,max=255"`
	BirthYear    *int           `json:"birth_year"`
	Gender       *entity.Gender `json:"gender" binding:"omitempty,gender"`
	IsAdmin      *bool          `json:"is_admin"`
	AvatarBase64 *string        `json:"avatar_base64"`
	Password     *string        `json:"password" binding:"omitempty,max=72"`
}

type UserResponse struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	BirthYear  int           `json:"birth_year"`
	Gender     entity.Gender `json:"gender"`
	IsAdmin    bool          `json:"is_admin"`
	AvatarPath *string       `json:"avatar_path"`
	CreatedAt  string        `json:"created_at"`
	CreatedBy  *string       `json:"created_by"`
}

type CreateUserResponse struct {
	Status bool `json:"status"`
	UserID uint `json:"user_id"`
}

type UserIDQuery struct {
	UserID uint `form:"user_id" binding:"required"`
}

type GroupByHoursQuery struct {
	Day string `form:"day" binding:"required"`
}

type GroupByMinutesQuery struct {
	Day  string `form:"day" binding:"required"`
	Hour *int   `form:"hour" binding:"required,min=0,max=23"`
}

// TimeBucket is one non-empty bucket of a creation histogram.
type TimeBucket struct {
	Label string
	Count int64
}

// NewUserResponse builds the public view of u. createdBy is the creator's
// name, nil when unknown.
func NewUserResponse(u *entity.User, createdBy *string, loc *time.Location) UserResponse {
	createdAt := u.CreatedAt
	if loc != nil {
		createdAt = createdAt.In(loc)
	}
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		BirthYear:  u.BirthYear,
		Gender:     u.Gender,
		IsAdmin:    u.IsAdmin,
		AvatarPath: u.AvatarPath,
		CreatedAt:  createdAt.Format(CreatedAtLayout),
		CreatedBy:  createdBy,
	}
}
