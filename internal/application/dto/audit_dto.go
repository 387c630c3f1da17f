package dto

import "time"

// AuditLogResponse salida de una entrada del log de auditoría.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id,omitempty"`
	Description string    `json:"description"`
	UserName    string    `json:"user_name"`
	Timestamp   time.Time `json:"timestamp"`
	Details     string    `json:"details,omitempty"`
}

// AuditLogPageResponse página del log de auditoría (page base 0).
type AuditLogPageResponse struct {
	Items         []AuditLogResponse `json:"items"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int                `json:"total_elements"`
	TotalPages    int                `json:"total_pages"`
}
