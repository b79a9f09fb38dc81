package models

import "time"

const MutationLogTable = "wz_mutation_log"

type MutationAction string

const (
	ActionCreate MutationAction = "create"
	ActionUpdate MutationAction = "update"
	ActionDelete MutationAction = "delete"
)

// MutationLog is one successful write through the checkout gateway or the
// record endpoints.
type MutationLog struct {
	ID        string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind      string         `gorm:"size:20;index;not null" json:"kind"`
	Action    MutationAction `gorm:"size:10;not null" json:"action"`
	RecordID  string         `gorm:"size:64;index;not null" json:"recordId"`
	Actor     string         `gorm:"size:120" json:"actor"`
	RequestID string         `gorm:"size:64" json:"requestId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (MutationLog) TableName() string { return MutationLogTable }
