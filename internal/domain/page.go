package domain

// Page sizes per listing.
const (
	TaskPageSize       = 10
	CommentPageSize    = 20
	AttachmentPageSize = 20
	UserPageSize       = 10
)

// PageRequest selects a 1-based page of a listing.
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest clamps number to at least 1.
func NewPageRequest(number, size int) PageRequest {
	if number < 1 {
		number = 1
	}
	return PageRequest{Number: number, Size: size}
}

func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Page is one slice of a listing plus the total number of matching rows.
type Page[T any] struct {
	Items   []T
	Total   int
	Number  int
	PerPage int
}

// LastPage is at least 1 even for an empty listing.
func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}
