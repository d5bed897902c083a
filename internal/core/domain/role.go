package domain

import (
	"errors"
	"time"
)

// Role is the authorization role attached to a member.
type Role string

const (
	RoleClient  Role = "client"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Known reports whether the role is one of the three recognised values.
func (r Role) Known() bool {
	return r == RoleClient || r == RoleTrainer || r == RoleAdmin
}

// Status is the lifecycle state of a role or trainer-client assignment.
// Rows are deactivated, never deleted, so history is preserved.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var ErrRoleNotFound = errors.New("no active role assignment")
var ErrAssignmentNotFound = errors.New("no active trainer-client assignment")

// RoleAssignment maps a member to a role. One active row per member is the
// intended invariant; when duplicates exist the first active match wins and
// the condition is a defect to surface, not a feature.
type RoleAssignment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	MemberID  string    `json:"memberId" bson:"memberId"`
	Role      Role      `json:"role" bson:"role"`
	Status    Status    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TrainerClientAssignment establishes that a trainer may act on a client's
// data. Reassignment deactivates the old row and inserts a new one.
type TrainerClientAssignment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	TrainerID string    `json:"trainerId" bson:"trainerId"`
	ClientID  string    `json:"clientId" bson:"clientId"`
	Status    Status    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
