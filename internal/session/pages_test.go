package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateShape(t *testing.T) {
	items := make([]string, 0, 53)
	for i := 0; i < 53; i++ {
		items = append(items, "x")
	}

	pages := Paginate(items, 25)
	assert.Len(t, pages, 3, "ceil(53/25)")
	assert.Len(t, pages[0], 25)
	assert.Len(t, pages[1], 25)
	assert.Len(t, pages[2], 3, "last page holds N mod S")

	even := Paginate(items[:50], 25)
	assert.Len(t, even, 2)
	assert.Len(t, even[1], 25, "exact division fills the last page")
}

func TestPaginateEmptyYieldsOneEmptyPage(t *testing.T) {
	pages := Paginate([]string(nil), 15)
	assert.Len(t, pages, 1)
	assert.Empty(t, pages[0])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-1, 3))
	assert.Equal(t, 2, Clamp(5, 3))
	assert.Equal(t, 1, Clamp(1, 3))
	assert.Equal(t, 0, Clamp(0, 0), "empty list normalizes to a single page")
}

func TestSetPagesReclampsCursor(t *testing.T) {
	s := &Session{Page: 4}
	s.SetPages([][]string{{"a"}, {"b"}})
	assert.Equal(t, 1, s.Page)

	s.SetPages(nil)
	assert.Equal(t, 0, s.Page)
	assert.Len(t, s.Pages, 1)
}
