package params

import "github.com/labstack/echo/v4"

// QueryParams carries common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// FromContext parses paging parameters from the request, applying defaults.
func FromContext(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: intQuery(c, "page", 1),
		PageSize:   intQuery(c, "page_size", defaultPageSize),
		Search:     c.QueryParam("search"),
	}
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func intQuery(c echo.Context, name string, def int) int {
	s := c.QueryParam(name)
	if s == "" {
		return def
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}
