package model

// CountryName mirrors the name object of the countries dataset.
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official,omitempty"`
}

// CountryRecord is one entry of the country dataset. Code is the node id of
// the border graph; Borders may reference codes absent from the dataset and
// LatLng may be empty for island nations.
type CountryRecord struct {
	Code    string      `json:"cca3"`
	Name    CountryName `json:"name"`
	Borders []string    `json:"borders"`
	LatLng  []float64   `json:"latlng"`
}

type CountrySummary struct {
	Code    string   `json:"code"`
	Name    string   `json:"name,omitempty"`
	Borders []string `json:"borders"`
}

type RouteResponse struct {
	Route []string `json:"route"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CacheStats struct {
	Gets       int  `json:"gets"`
	Hits       int  `json:"hits"`
	Puts       int  `json:"puts"`
	Entries    int  `json:"entries"`
	GraphBuilt bool `json:"graph_built"`
	Nodes      int  `json:"nodes"`
	Edges      int  `json:"edges"`
}
