package domain

// CandidateStory is the transient record produced by the AI extraction step
// before sanitization. All fields are raw strings and may be missing, empty,
// or malformed; the sanitizer reconciles them against the Story schema.
type CandidateStory struct {
	Title    string `json:"title"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
	Author   string `json:"author"`
	Story    string `json:"story"`
	Summary  string `json:"summary"`
	ImageURL string `json:"image_url"`
}

// PageContent is the normalized bundle fed to the AI extraction client for
// story interpretation: visible text, named meta properties, and image
// references in document order.
type PageContent struct {
	Text           string            `json:"text"`
	MetaProperties map[string]string `json:"meta_properties"`
	Images         []string          `json:"images"`
}
