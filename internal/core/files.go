package core

// FileRecord describes a stored upload. Records live in memory for the
// lifetime of the process; only the registry mutates them.
type FileRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"-"`
}

// FileReference is the wire-facing shape sent to the backend and returned
// by POST /v1/files. URL points back at this process so the backend can
// fetch the bytes.
type FileReference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
