package pagination

import "fmt"

// Navigator drives first/prev/next/last navigation for one fetched page.
// It never points outside [1, totalPage].
type Navigator struct {
	TotalData   int64
	DataPerPage int
	TotalPage   int
	CurrentPage int
}

func (n Navigator) FirstPage() bool { return n.CurrentPage <= 1 }
func (n Navigator) LastPage() bool  { return n.CurrentPage >= n.TotalPage }

// Target builds the query string for a page click, applying the last-page
// per-page remainder. Clicks outside [1, totalPage] return "" and must not
// be navigated.
func (n Navigator) Target(page int) string {
	if page < 1 || page > n.TotalPage {
		return ""
	}
	perPage := PerPageFor(page, n.TotalPage, n.TotalData, n.DataPerPage)
	return fmt.Sprintf("?page=%d&per-page=%d", page, perPage)
}

func (n Navigator) First() string { return n.Target(1) }
func (n Navigator) Prev() string  { return n.Target(n.CurrentPage - 1) }
func (n Navigator) Next() string  { return n.Target(n.CurrentPage + 1) }
func (n Navigator) Last() string  { return n.Target(n.TotalPage) }

// Window is the numbered-button window for the current position.
func (n Navigator) Window() []int { return Window(n.CurrentPage, n.TotalPage) }
