package session

// Page sizes per flow, matching the select-menu capacity of each UI.
const (
	PageSizeEditor      = 25
	PageSizeConfigRoles = 15 // blackrole and blrconfig listings
	PageSizeRoleMembers = 20
)

// Paginate splits items into fixed-size pages. An empty input produces
// exactly one empty page, never zero pages.
func Paginate[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	if len(items) == 0 {
		return [][]T{{}}
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		pages = append(pages, items[start:end])
	}
	return pages
}

// Clamp bounds a page cursor to [0, total-1].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page >= total {
		page = total - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}
