// Package identity carries the authenticated caller from the HTTP layer into services.
package identity

import (
	"errors"
	"fmt"
)

type Module string

const (
	ModuleHR       Module = "hr"
	ModuleSales    Module = "sales"
	ModulePurchase Module = "purchase"
	ModuleProject  Module = "project"
)

func (m Module) IsValid() bool {
	switch m {
	case ModuleHR, ModuleSales, ModulePurchase, ModuleProject:
		return true
	}
	return false
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Actor is the user on whose behalf an operation runs.
type Actor struct {
	UserID     string
	Email      string
	EmployeeID string
	CompanyID  string
	Role       Role
	Modules    []Module
}

func (a Actor) HasModule(m Module) bool {
	for _, module := range a.Modules {
		if module == m {
			return true
		}
	}
	return false
}

// CanReview reports whether the actor may confirm, approve or reset records of other employees.
func (a Actor) CanReview() bool {
	return a.Role == RoleManager
}

func (a Actor) HasEmployee() bool {
	return a.EmployeeID != ""
}

var ErrInvalidClaims = errors.New("invalid identity claims")

// FromClaims builds an Actor from decoded access token claims.
func FromClaims(claims map[string]interface{}) (Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Actor{}, fmt.Errorf("%w: user_id is missing", ErrInvalidClaims)
	}

	actor := Actor{UserID: userID}
	actor.Email, _ = claims["email"].(string)
	actor.EmployeeID, _ = claims["employee_id"].(string)
	actor.CompanyID, _ = claims["company_id"].(string)

	role, _ := claims["role"].(string)
	actor.Role = Role(role)
	if actor.Role == "" {
		actor.Role = RoleEmployee
	}

	switch modules := claims["modules"].(type) {
	case []string:
		for _, m := range modules {
			actor.Modules = append(actor.Modules, Module(m))
		}
	case []interface{}:
		for _, m := range modules {
			s, ok := m.(string)
			if !ok {
				return Actor{}, fmt.Errorf("%w: modules must be strings", ErrInvalidClaims)
			}
			actor.Modules = append(actor.Modules, Module(s))
		}
	case nil:
	default:
		return Actor{}, fmt.Errorf("%w: modules has unexpected type %T", ErrInvalidClaims, modules)
	}

	return actor, nil
}
