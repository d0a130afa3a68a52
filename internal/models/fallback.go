package models

import (
	"time"
)

type FallbackOperation string

const (
	FallbackCreate FallbackOperation = "create"
	FallbackUpdate FallbackOperation = "update"
	FallbackDelete FallbackOperation = "delete"
)

// FallbackEntry is a NocoDB write that failed and waits for replay. UserID and ClientID
// are the user whose request produced the write. DeadAt is set once replay gives up.
type FallbackEntry struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	UserID    string            `json:"user_id" gorm:"index"`
	ClientID  string            `json:"client_id" gorm:"index"`
	Table     string            `json:"table" gorm:"column:table_id;not null;index"`
	Operation FallbackOperation `json:"operation" gorm:"type:varchar(16);not null"`
	RecordID  string            `json:"record_id"`
	Payload   string            `json:"payload" gorm:"type:text"`
	Attempts  int               `json:"attempts" gorm:"default:0"`
	LastError string            `json:"last_error"`
	CreatedAt time.Time         `json:"created_at"`
	SyncedAt  *time.Time        `json:"synced_at" gorm:"index"`
	DeadAt    *time.Time        `json:"dead_at,omitempty"`
}

// Pending reports whether the entry still waits for replay.
func (e FallbackEntry) Pending() bool {
	return e.SyncedAt == nil && e.DeadAt == nil
}

// OwnedBy reports whether the entry was queued by owner. Entries without an owner match nobody.
func (e FallbackEntry) OwnedBy(owner Owner) bool {
	return (e.UserID != "" && e.UserID == owner.UserID) || (e.ClientID != "" && e.ClientID == owner.ClientID)
}

func (FallbackEntry) TableName() string {
	return "nocodb_fallbacks"
}

type SyncReport struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
	// Dead counts entries dropped from replay in this run.
	Dead int `json:"dead"`
}

type DashboardStats struct {
	Rules              int                    `json:"rules"`
	RulesByEvent       map[EventType]int      `json:"rules_by_event"`
	Campaigns          int                    `json:"campaigns"`
	CampaignsByStatus  map[CampaignStatus]int `json:"campaigns_by_status"`
	MessagesSent       int                    `json:"messages_sent"`
	MessagesFailed     int                    `json:"messages_failed"`
	Tutorials          int                    `json:"tutorials"`
	Instances          int                    `json:"instances"`
	ConnectedInstances int                    `json:"connected_instances"`
	Partial            bool                   `json:"partial"`
}
