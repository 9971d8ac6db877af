package domain

import "time"

// AuditLog records a mutation made through the API. Rows are written in the
// same transaction as the change they describe.
type AuditLog struct {
	ID         int64                  `db:"id" json:"id"`
	UserID     int64                  `db:"user_id" json:"user_id"`
	Action     string                 `db:"action" json:"action"`
	Category   string                 `db:"category" json:"category"`
	ResourceID int64                  `db:"resource_id" json:"resource_id"`
	Details    map[string]interface{} `db:"details" json:"details"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}

// Audit categories
const (
	AuditCategoryAuth       = "auth"
	AuditCategoryTask       = "task"
	AuditCategoryComment    = "comment"
	AuditCategoryAttachment = "attachment"
	AuditCategoryUser       = "user"
)

// Audit actions
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
	AuditActionLogout   = "logout"

	AuditActionTaskCreate = "task_create"
	AuditActionTaskUpdate = "task_update"
	AuditActionTaskStatus = "task_status"
	AuditActionTaskDelete = "task_delete"

	AuditActionCommentCreate = "comment_create"
	AuditActionCommentUpdate = "comment_update"
	AuditActionCommentDelete = "comment_delete"

	AuditActionAttachmentCreate = "attachment_create"
	AuditActionAttachmentDelete = "attachment_delete"

	AuditActionProfileUpdate = "profile_update"
)
