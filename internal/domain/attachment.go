package domain

import "time"

// MaxAttachmentSize is the upload limit for task attachments (10 MiB).
const MaxAttachmentSize int64 = 10 << 20

// MaxAvatarSize is the upload limit for profile avatars (2 MiB).
const MaxAvatarSize int64 = 2 << 20

// Attachment is the metadata of a file stored in the blob store.
// Filename is the opaque storage key, OriginalFilename the display name.
type Attachment struct {
	ID               int64      `db:"id"`
	TaskID           int64      `db:"task_id"`
	UserID           int64      `db:"user_id"`
	Filename         string     `db:"filename"`
	OriginalFilename string     `db:"original_filename"`
	MimeType         string     `db:"mime_type"`
	Size             int64      `db:"size"`
	Checksum         string     `db:"checksum"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`

	Uploader *User
}

// Upload is a file received from a client.
type Upload struct {
	Name     string
	MimeType string
	Content  []byte
}

// Size returns the number of bytes in the upload.
func (u Upload) Size() int64 {
	return int64(len(u.Content))
}
