package models

import (
	"time"
)

type AdminRole string

const (
	RolePlatformAdmin      AdminRole = "platform_admin"
	RoleInstitutionalAdmin AdminRole = "institutional_admin"
	RoleBillingAdmin       AdminRole = "billing_admin"
)

type ModuleAccess string

const (
	AccessFull     ModuleAccess = "full"
	AccessViewOnly ModuleAccess = "view_only"
	AccessNone     ModuleAccess = "none"
)

// Dashboard modules that carry their own permission level.
const (
	ModuleReports    = "reports"
	ModuleLicenses   = "licenses"
	ModuleEnrollment = "enrollment"
)

type AdminStatus string

const (
	AdminStatusActive  AdminStatus = "active"
	AdminStatusInvited AdminStatus = "invited"
)

// ModulePermissions holds the access level per dashboard module.
type ModulePermissions struct {
	Reports    ModuleAccess `json:"reports"`
	Licenses   ModuleAccess `json:"licenses"`
	Enrollment ModuleAccess `json:"enrollment"`
}

// ProductAccess lists the products an admin may touch within each module.
// A module with AccessNone must have an empty list here.
type ProductAccess struct {
	Reports    []Product `json:"reports"`
	Licenses   []Product `json:"licenses"`
	Enrollment []Product `json:"enrollment"`
}

type AdminUser struct {
	ID            string            `json:"id" gorm:"primaryKey"`
	Name          string            `json:"name" gorm:"not null"`
	Email         string            `json:"email" gorm:"uniqueIndex;not null"`
	Role          AdminRole         `json:"role" gorm:"not null"`
	Institution   string            `json:"institution"`
	Permissions   ModulePermissions `json:"permissions" gorm:"embedded;embeddedPrefix:perm_"`
	ProductAccess ProductAccess     `json:"product_access" gorm:"serializer:json"`
	Status        AdminStatus       `json:"status" gorm:"default:active"`
	AddedDate     time.Time         `json:"added_date"`
	AddedBy       string            `json:"added_by"`
}

// Access returns the admin's access level for the named module.
func (u *AdminUser) Access(module string) ModuleAccess {
	switch module {
	case ModuleReports:
		return u.Permissions.Reports
	case ModuleLicenses:
		return u.Permissions.Licenses
	case ModuleEnrollment:
		return u.Permissions.Enrollment
	default:
		return AccessNone
	}
}

// CanView reports whether the admin may read the named module.
func (u *AdminUser) CanView(module string) bool {
	return u.Access(module) != AccessNone
}

// CanEdit reports whether the admin may mutate the named module.
func (u *AdminUser) CanEdit(module string) bool {
	return u.Access(module) == AccessFull
}

// NormalizeProductAccess clears product lists for modules the admin cannot
// see, keeping the permission/product-access pair consistent.
func (u *AdminUser) NormalizeProductAccess() {
	if u.Permissions.Reports == AccessNone {
		u.ProductAccess.Reports = nil
	}
	if u.Permissions.Licenses == AccessNone {
		u.ProductAccess.Licenses = nil
	}
	if u.Permissions.Enrollment == AccessNone {
		u.ProductAccess.Enrollment = nil
	}
}

// DefaultPermissions returns the permission preset for a role.
func DefaultPermissions(role AdminRole) ModulePermissions {
	switch role {
	case RolePlatformAdmin:
		return ModulePermissions{Reports: AccessFull, Licenses: AccessViewOnly, Enrollment: AccessViewOnly}
	case RoleInstitutionalAdmin:
		return ModulePermissions{Reports: AccessFull, Licenses: AccessFull, Enrollment: AccessViewOnly}
	case RoleBillingAdmin:
		return ModulePermissions{Reports: AccessFull, Licenses: AccessViewOnly, Enrollment: AccessFull}
	default:
		return ModulePermissions{Reports: AccessNone, Licenses: AccessNone, Enrollment: AccessNone}
	}
}
