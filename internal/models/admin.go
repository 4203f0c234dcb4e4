package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
	AdminRoleAdmin      AdminRole = "ADMIN"
	AdminRoleSupport    AdminRole = "SUPPORT"
)

type Admin struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,min=2,max=80"`
	Email       string             `json:"email" bson:"email" validate:"required,email"`
	Password    string             `json:"-" bson:"password"`
	Role        AdminRole          `json:"role" bson:"role" validate:"required"`
	IsActive    bool               `json:"isActive" bson:"is_active"`
	LastLoginAt *time.Time         `json:"lastLoginAt,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// AdminProfile is the identity returned to the SPA at login.
type AdminProfile struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  AdminRole          `json:"role"`
}

func (a *Admin) Profile() AdminProfile {
	return AdminProfile{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

func (r AdminRole) IsValid() bool {
	switch r {
	case AdminRoleSuperAdmin, AdminRoleAdmin, AdminRoleSupport:
		return true
	}
	return false
}

// CanManage reports whether the role may use the non-support back-office routes.
func (r AdminRole) CanManage() bool {
	return r == AdminRoleSuperAdmin || r == AdminRoleAdmin
}
