package joplin

type noteBody struct {
	Body *string `json:"body"`
}

type createNoteRequest struct {
	ID                string `json:"id,omitempty"`
	ParentID          string `json:"parent_id,omitempty"`
	Title             string `json:"title"`
	Body              string `json:"body,omitempty"`
	BodyHTML          string `json:"body_html,omitempty"`
	SourceURL         string `json:"source_url,omitempty"`
	BaseURL           string `json:"base_url,omitempty"`
	UserCreatedTime   *int64 `json:"user_created_time,omitempty"`
	UserUpdatedTime   *int64 `json:"user_updated_time,omitempty"`
	SourceApplication string `json:"source_application"`
}

type updateNoteRequest struct {
	Body string `json:"body"`
}

type idResponse struct {
	ID string `json:"id"`
}

type createTagRequest struct {
	Title string `json:"title"`
}

type assignTagRequest struct {
	ID string `json:"id"`
}

// page mirrors Joplin's paginated list envelope.
type page[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}

type tagItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type noteRefItem struct {
	ID        string `json:"id"`
	SourceURL string `json:"source_url"`
}

// folderNode is one node of GET folders?as_tree=1. Leaves omit children.
type folderNode struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	ParentID  string       `json:"parent_id"`
	NoteCount int64        `json:"note_count"`
	Children  []folderNode `json:"children,omitempty"`
}
