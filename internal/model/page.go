package model

// DefaultPageSize matches the page size of the "your blogs" list.
const DefaultPageSize = 5

// Page is a 1-based pagination cursor over a fixed page size.
type Page struct {
	Number int
	Size   int
}

func FirstPage(size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page{Number: 1, Size: size}
}

// Offset is the index of the first row of the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Range returns the inclusive row range [from, to] covered by the page.
func (p Page) Range() (from, to int) {
	from = p.Offset()
	return from, from + p.Size - 1
}

func (p Page) Next() Page {
	return Page{Number: p.Number + 1, Size: p.Size}
}

func (p Page) Prev() Page {
	if p.Number <= 1 {
		return Page{Number: 1, Size: p.Size}
	}
	return Page{Number: p.Number - 1, Size: p.Size}
}

// HasMore is inferred from a full page; there is no count query.
func (p Page) HasMore(fetched int) bool {
	return fetched == p.Size
}
