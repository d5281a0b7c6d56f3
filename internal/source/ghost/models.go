package ghost

// postsResponse represents the Content API posts envelope.
type postsResponse struct {
	Posts []apiPost `json:"posts"`
}

type apiPost struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	HTML        string   `json:"html"`
	URL         string   `json:"url"`
	PublishedAt *string  `json:"published_at"`
	UpdatedAt   *string  `json:"updated_at"`
	Tags        []apiTag `json:"tags"`
}

type apiTag struct {
	Name string `json:"name"`
}

type settingsResponse struct {
	Settings *settings `json:"settings"`
}

type settings struct {
	Title string `json:"title"`
}
