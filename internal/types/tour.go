package types

// Festival mirrors the TourAPI searchFestival item fields the frontend uses.
type Festival struct {
	ContentID      string `json:"content_id"`
	Title          string `json:"title"`
	Address        string `json:"address"`
	EventStartDate string `json:"event_start_date"`
	EventEndDate   string `json:"event_end_date"`
	FirstImage     string `json:"first_image"`
	MapX           string `json:"mapx"`
	MapY           string `json:"mapy"`
	AreaCode       string `json:"area_code"`
	Tel            string `json:"tel"`
}

// AttractionSuggestion is the autocomplete shape for attraction search.
type AttractionSuggestion struct {
	Description          string               `json:"description"`
	PlaceID              string               `json:"place_id"`
	StructuredFormatting StructuredFormatting `json:"structured_formatting"`
}

type StructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type Attraction struct {
	ContentID    string   `json:"content_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	AreaCode     string   `json:"area_code"`
	CategoryCode string   `json:"category_code"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ImageURL     string   `json:"image_url"`
	Tel          string   `json:"tel"`
}
