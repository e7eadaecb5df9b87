package provider

// SearchParams is one query against the marketplace search API. Nil price
// bounds stay out of the request; sorting is always newest-first.
type SearchParams struct {
	Category string
	Limit    int
	PriceMin *int
	PriceMax *int
	Keywords string
}

// Listing is one raw search result. Every optional field may be absent and
// decodes to its zero value instead of failing the whole page.
type Listing struct {
	ID                   int64     `json:"list_id"`
	Subject              string    `json:"subject"`
	Price                float64   `json:"price"`
	URL                  string    `json:"url"`
	Images               *Images   `json:"images,omitempty"`
	Location             *Location `json:"location,omitempty"`
	FirstPublicationDate string    `json:"first_publication_date,omitempty"`
}

type Images struct {
	SmallURL string   `json:"small_url,omitempty"`
	URLs     []string `json:"urls,omitempty"`
}

type Location struct {
	City string  `json:"city,omitempty"`
	Lat  float64 `json:"lat,omitempty"`
	Lng  float64 `json:"lng,omitempty"`
}

// ImageURL picks the best available image reference: the dedicated small
// image if present, else the first of the URL list, else "".
func (l Listing) ImageURL() string {
	if l.Images == nil {
		return ""
	}
	if l.Images.SmallURL != "" {
		return l.Images.SmallURL
	}
	if len(l.Images.URLs) > 0 {
		return l.Images.URLs[0]
	}
	return ""
}
