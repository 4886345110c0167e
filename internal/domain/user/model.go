package user

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleCoach Role = "coach"
)

// Account is the stored users/{uid} document.
type Account struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	TeamID       string
	ProfilePhoto string
}

// Principal is the read-only identity passed explicitly into every query and
// mutation. It is never held in package state.
type Principal struct {
	UserID string
	Role   Role
	TeamID string
}

func (p Principal) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("principal user id is required")
	}
	if strings.TrimSpace(p.TeamID) == "" {
		return fmt.Errorf("principal team id is required")
	}
	switch p.Role {
	case RoleAdmin, RoleCoach:
	default:
		return fmt.Errorf("invalid principal role: %q", p.Role)
	}
	return nil
}

func (p Principal) IsCoach() bool { return p.Role == RoleCoach }

func (p Principal) CanManage() bool { return p.Role == RoleCoach || p.Role == RoleAdmin }

type Repository interface {
	GetByID(ctx context.Context, userID string) (Account, bool, error)
	UpdateProfilePhoto(ctx context.Context, userID, url string) error
}
