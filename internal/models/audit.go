package models

import "gorm.io/gorm"

// Audit action and method tags used by the assignment service.
const (
	AuditActionAssign = "complaint_assigned"
	AuditMethodManual = "manual"
	// AuditMethodBalancing tags assignments made by the bulk balancer.
	AuditMethodBalancing = "workload_balancing"
)

// AuditLog records an administrative action for later review.
type AuditLog struct {
	gorm.Model

	ActorID string `gorm:"type:text;not null;index"`
	Action  string `gorm:"type:text;not null"`
	// Method distinguishes how the action was triggered, e.g. "manual"
	// vs "workload_balancing".
	Method string `gorm:"type:text"`
	Detail string `gorm:"type:text"`
}
