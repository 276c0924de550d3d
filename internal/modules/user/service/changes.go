package service

import "anoa.com/userdirectory/internal/entity"

// userChanges is a set of optional field updates. A nil field is left
// untouched; avatarSet distinguishes "set avatar to nil" from "no change".
type userChanges struct {
	name      *string
	birthYear *int
	gender    *entity.Gender
	isAdmin   *bool
	password  *string
	avatarSet bool
	avatar    *string
}

func (c userChanges) columns() map[string]any {
	cols := make(map[string]any)
	if c.name != nil {
		cols["name"] = *c.name
	}
	if c.birthYear != nil {
		cols["birth_year"] = *c.birthYear
	}
	if c.gender != nil {
		cols["gender"] = *c.gender
	}
	if c.isAdmin != nil {
		cols["is_admin"] = *c.isAdmin
	}
	if c.password != nil {
		cols["password"] = *c.password
	}
	if c.avatarSet {
		if c.avatar != nil {
			cols["avatar_path"] = *c.avatar
		} else {
			cols["avatar_path"] = nil
		}
	}
	return cols
}
