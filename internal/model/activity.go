package model

import "time"

// ActivityEntry is one audit-log record. Appends are best-effort: a failed
// write is logged operationally and never fails the request that produced it.
type ActivityEntry struct {
	ID        int64     `json:"id" db:"id"`
	AdminID   int64     `json:"admin_id" db:"admin_id"`
	Username  string    `json:"username" db:"username"`
	Action    string    `json:"action" db:"action"`
	Entity    string    `json:"entity" db:"entity"`
	EntityID  int64     `json:"entity_id,omitempty" db:"entity_id"`
	Region    string    `json:"region,omitempty" db:"region"`
	Detail    string    `json:"detail,omitempty" db:"detail"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
