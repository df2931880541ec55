package user

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"

type Permission string

const (
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceReview  Permission = "attendance.review"

	PermissionDocumentViewOwn Permission = "document.view_own"
	PermissionDocumentSubmit  Permission = "document.submit"
	PermissionDocumentReview  Permission = "document.review"

	PermissionCustomerCreditView Permission = "customer_credit.view"

	PermissionMarketPriceView   Permission = "market_price.view"
	PermissionMarketPriceRecord Permission = "market_price.record"
)

// ModulePermissions maps each mobile module to what it unlocks for every user.
var ModulePermissions = map[identity.Module][]Permission{
	identity.ModuleHR: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionDocumentViewOwn,
		PermissionDocumentSubmit,
	},
	identity.ModuleSales: {
		PermissionCustomerCreditView,
	},
	identity.ModulePurchase: {
		PermissionMarketPriceView,
		PermissionMarketPriceRecord,
	},
	identity.ModuleProject: {},
}

// ReviewerPermissions are granted to managers on top of their module permissions.
var ReviewerPermissions = map[identity.Module][]Permission{
	identity.ModuleHR: {
		PermissionAttendanceReview,
		PermissionDocumentReview,
	},
}

// PermissionsOf lists everything the actor may do, in module order.
func PermissionsOf(actor identity.Actor) []Permission {
	var perms []Permission
	for _, module := range actor.Modules {
		perms = append(perms, ModulePermissions[module]...)
		if actor.CanReview() {
			perms = append(perms, ReviewerPermissions[module]...)
		}
	}
	return perms
}

// HasPermission checks if the actor has a specific permission
func HasPermission(actor identity.Actor, permission Permission) bool {
	for _, p := range PermissionsOf(actor) {
		if p == permission {
			return true
		}
	}
	return false
}
