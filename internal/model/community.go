package model

import "time"

// Join policies control what happens on a join request.
const (
	JoinPolicyAuto     = "AUTO_JOIN"
	JoinPolicyApproval = "APPROVAL_REQUIRED"
	JoinPolicyClosed   = "CLOSED"
)

// Membership roles and statuses.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex;size:50;not null"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
	IsPublic    bool   `gorm:"not null"`
	JoinPolicy  string `gorm:"size:20;not null;default:AUTO_JOIN"`
	// Profile requirements checked on join
	RequiresLightningAddress bool   `gorm:"not null;default:false"`
	RequiresNostrPubkey      bool   `gorm:"not null;default:false"`
	OwnerID                  uint64 `gorm:"not null;index"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// CommunityMember is the membership ledger row. At most one per (community, user);
// the unique index is the backstop for concurrent join requests.
type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        string `gorm:"size:10;not null;default:MEMBER"`
	Status      string `gorm:"size:10;not null;default:PENDING"`
	Points      int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func ValidJoinPolicy(p string) bool {
	return p == JoinPolicyAuto || p == JoinPolicyApproval || p == JoinPolicyClosed
}

func ValidRole(r string) bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}

func ValidMemberStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsModerator reports whether the member may act on the community's admin surface.
func (m *CommunityMember) IsModerator() bool {
	return m.Status == StatusApproved && (m.Role == RoleOwner || m.Role == RoleAdmin)
}
