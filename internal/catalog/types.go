package catalog

// Volume is a catalog search result in the shape the rest of the system
// consumes. Fields the provider omitted are left at their zero values; the
// import path applies defaulting when a volume becomes a book.
type Volume struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	PageCount int      `json:"page_count"`
	CoverURL  string   `json:"cover_url"`
}

// volumesResponse mirrors the Google Books volumes list payload, limited to
// the fields we read.
type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title      string      `json:"title"`
	Authors    []string    `json:"authors"`
	PageCount  int         `json:"pageCount"`
	ImageLinks *imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
