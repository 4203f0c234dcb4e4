package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionBan    AuditAction = "ban"
	AuditActionUnban  AuditAction = "unban"
	AuditActionStatus AuditAction = "status"
	AuditActionRefund AuditAction = "refund"
	AuditActionExpire AuditAction = "expire"
)

// AuditLog records one mutation performed through the back office.
// AdminID is nil for actions taken by background jobs.
type AuditLog struct {
	ID         primitive.ObjectID     `json:"_id" bson:"_id,omitempty"`
	AdminID    *primitive.ObjectID    `json:"adminId,omitempty" bson:"admin_id,omitempty"`
	Action     AuditAction            `json:"action" bson:"action"`
	Resource   string                 `json:"resource" bson:"resource"`
	ResourceID string                 `json:"resourceId" bson:"resource_id"`
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	IPAddress  string                 `json:"ipAddress,omitempty" bson:"ip_address,omitempty"`
	UserAgent  string                 `json:"userAgent,omitempty" bson:"user_agent,omitempty"`
	RequestID  string                 `json:"requestId,omitempty" bson:"request_id,omitempty"`
	CreatedAt  time.Time              `json:"createdAt" bson:"created_at"`
}
