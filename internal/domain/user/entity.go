package user

import (
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
)

// ModuleAccess toggles the mobile app modules a user may open.
type ModuleAccess struct {
	HR       bool
	Sales    bool
	Purchase bool
	Project  bool
}

func DefaultModuleAccess() ModuleAccess {
	return ModuleAccess{HR: true}
}

func (m ModuleAccess) Modules() []identity.Module {
	var modules []identity.Module
	if m.HR {
		modules = append(modules, identity.ModuleHR)
	}
	if m.Sales {
		modules = append(modules, identity.ModuleSales)
	}
	if m.Purchase {
		modules = append(modules, identity.ModulePurchase)
	}
	if m.Project {
		modules = append(modules, identity.ModuleProject)
	}
	return modules
}

type User struct {
	ID           string
	CompanyID    *string
	Email        string
	PasswordHash *string
	DisplayName  string
	Role         identity.Role
	Access       ModuleAccess
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeID *string
}

// IsManager checks if user can review attendance and documents
func (u *User) IsManager() bool {
	return u.Role == identity.RoleManager
}
