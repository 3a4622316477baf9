package models

import "time"

// TableStatus defines the type for dining table statuses
type TableStatus string

const (
	TableStatusFree     TableStatus = "free"
	TableStatusOccupied TableStatus = "occupied"
	TableStatusReserved TableStatus = "reserved"
)

// IsValidTableStatus checks if the provided status string is a valid TableStatus.
func IsValidTableStatus(status string) bool {
	switch TableStatus(status) {
	case TableStatusFree, TableStatusOccupied, TableStatusReserved:
		return true
	default:
		return false
	}
}

// Table represents a physical dining table.
type Table struct {
	ID        int64       `json:"id"`
	Number    int         `json:"number"`
	Capacity  int         `json:"capacity"`
	Status    TableStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
