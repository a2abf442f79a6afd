package models

// FileKind tags an uploaded part by its form field of origin.
type FileKind string

const (
	KindPhoto FileKind = "photo"
	KindAudio FileKind = "audio"
)

// FilePart holds one uploaded file for the duration of a single request.
// It is never persisted locally.
type FilePart struct {
	Data        []byte
	ContentType string
	Kind        FileKind
}

// Folder is a named grouping object in the remote store under which
// uploaded files are placed. The ID is assigned by the storage layer.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StoredFile is the per-file result of one successful remote write.
// Constructed once, never mutated.
type StoredFile struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id"`
	Link string `json:"link"`
}

// UploadResult is the aggregate response body for one upload request.
// Files appear in submission order, photos first.
type UploadResult struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	Files      []StoredFile `json:"files"`
	FolderLink string       `json:"folderLink"`
}
