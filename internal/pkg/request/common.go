package request

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ByIDRequest binds a uuid path parameter named id.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams holds offset based paging parameters shared by list endpoints.
type ListParams struct {
	From int `form:"from" binding:"omitempty,min=0"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

// Page is the normalized form of ListParams handed to services.
type Page struct {
	Offset int
	Limit  int
}

// Page converts the raw parameters into a Page.
// The offset is aligned to the start of the page that contains From.
func (p ListParams) Page() Page {
	size := p.Size
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	from := p.From
	if from < 0 {
		from = 0
	}
	return Page{Offset: (from / size) * size, Limit: size}
}
