package model

import (
	"encoding/json"
	"time"
)

// Role is the workspace-level role of a user
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // Full access across all workspaces
	RoleAdmin      Role = "ADMIN"       // Full access within own workspace
	RoleAgent      Role = "AGENT"       // Access limited to assigned leads/projects
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleAgent:
		return true
	}
	return false
}

// SocialPlatform identifies the target network of a social post
type SocialPlatform string

const (
	PlatformTwitter  SocialPlatform = "twitter"
	PlatformLinkedIn SocialPlatform = "linkedin"
	PlatformFacebook SocialPlatform = "facebook"
)

// Valid reports whether p is a supported platform
func (p SocialPlatform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformLinkedIn, PlatformFacebook:
		return true
	}
	return false
}

// SocialPostStatus is the lifecycle state of a social post
type SocialPostStatus string

const (
	PostDraft     SocialPostStatus = "DRAFT"
	PostScheduled SocialPostStatus = "SCHEDULED"
	PostPublished SocialPostStatus = "PUBLISHED"
)

// Lead statuses form an open set; these are the values the UI offers by default.
const (
	LeadStatusNotInterested = "Not Interested"
	LeadStatusFollowUp      = "Follow-Up"
	LeadStatusQualified     = "Qualified"
	LeadStatusSalesComplete = "Sales Complete"
)

// Workspace is the tenancy boundary; every domain entity belongs to exactly one.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an account that can log in. WorkspaceID may be empty immediately
// after creation; callers must resolve a usable workspace before scoping
// queries (see policy.ResolveWorkspace).
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	WorkspaceID  string    `json:"workspace_id,omitempty"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPermission checks a capability string against the user's permission set.
// SUPER_ADMIN implicitly holds every permission; the stored list is ignored.
func (u *User) HasPermission(perm string) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == "all" || p == perm {
			return true
		}
	}
	return false
}

// EncodePermissions serializes a permission list to its stored string form.
// An empty or nil list encodes as "[]" so the column is never NULL.
func EncodePermissions(perms []string) string {
	if len(perms) == 0 {
		return "[]"
	}
	b, err := json.Marshal(perms)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodePermissions parses the stored string form back into a list. Garbage
// decodes to an empty list rather than failing the row read.
func DecodePermissions(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		return []string{}
	}
	return perms
}

// Project groups leads inside a workspace and carries the set of users
// assigned to work it.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	WorkspaceID   string    `json:"workspace_id"`
	AssignedUsers []string  `json:"assigned_users,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Lead is a sales contact inside a project. Status is a free-form string from
// an open set; DealValue defaults to zero.
type Lead struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Company         string    `json:"company,omitempty"`
	Title           string    `json:"title,omitempty"`
	Industry        string    `json:"industry,omitempty"`
	State           string    `json:"state,omitempty"`
	LinkedIn        string    `json:"linkedin,omitempty"`
	Website         string    `json:"website,omitempty"`
	Mobile          string    `json:"mobile,omitempty"`
	Status          string    `json:"status"`
	Source          string    `json:"source,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	DealValue       float64   `json:"deal_value"`
	WorkspaceID     string    `json:"workspace_id"`
	ProjectID       string    `json:"project_id"`
	AssignedAgentID string    `json:"assigned_agent_id,omitempty"`
	AssignedAgent   *UserRef  `json:"assigned_agent,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserRef is the embedded display form of a user on list responses
type UserRef struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ActivityLog is an append-only record of lead lifecycle events. Rows are
// never mutated or deleted by normal flow.
type ActivityLog struct {
	ID             string    `json:"id"`
	LeadID         string    `json:"lead_id"`
	UserID         string    `json:"user_id"`
	Action         string    `json:"action"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty"`
	Details        string    `json:"details,omitempty"`
	Timestamp      time.Time `json:"timestamp"`

	// Display joins, populated on report reads only
	LeadName string `json:"lead_name,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// Activity actions recorded against leads.
const (
	ActivityCreated       = "CREATED"
	ActivityStatusChanged = "STATUS_CHANGED"
)

// ProposalTemplate is generated proposal text saved for reuse.
type ProposalTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	Prompt      string    `json:"prompt,omitempty"`
	WorkspaceID string    `json:"workspace_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SocialPost is a draft, scheduled, or published post for one platform.
type SocialPost struct {
	ID           string           `json:"id"`
	Content      string           `json:"content"`
	Platform     SocialPlatform   `json:"platform"`
	Status       SocialPostStatus `json:"status"`
	ScheduledFor *time.Time       `json:"scheduled_for,omitempty"`
	WorkspaceID  string           `json:"workspace_id"`
	CreatedAt    time.Time        `json:"created_at"`
}
