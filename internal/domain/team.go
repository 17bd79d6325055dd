package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SavedTeam is a five-member team a user chose to keep. Evaluation holds
// the frozen scoring result from when the team was saved.
type SavedTeam struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Name       string         `json:"name" gorm:"not null"`
	MemberIDs  datatypes.JSON `json:"memberIds" gorm:"type:jsonb;not null"` // 5 champion definition ids
	Evaluation datatypes.JSON `json:"evaluation" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// SharedTeam is a public snapshot of a team reachable by short code
// without authentication.
type SharedTeam struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ShareCode string         `json:"shareCode" gorm:"uniqueIndex;not null"` // e.g., "a3f9c2d1"
	CreatedBy uuid.UUID      `json:"createdBy" gorm:"type:uuid;not null"`
	Snapshot  datatypes.JSON `json:"snapshot" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"createdAt"`
}
