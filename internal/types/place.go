package types

// Place is a Naver local-search result reshaped for the frontend.
type Place struct {
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"road_address"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Telephone   string  `json:"telephone"`
	Link        string  `json:"link"`
	MapX        float64 `json:"mapx"`
	MapY        float64 `json:"mapy"`
	Source      string  `json:"source"`
}

type CityCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteGuidance struct {
	Start   string `json:"start"`
	Goal    string `json:"goal"`
	Mode    string `json:"mode"`
	MapURL  string `json:"map_url"`
	Message string `json:"message"`
}
