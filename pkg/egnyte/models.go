package egnyte

import (
	"io"
	"time"
)

// Item is the metadata of a file or folder returned by GET /fs/{path}.
// Folder-only and file-only fields are left zero for the other kind.
type Item struct {
	IsFolder bool   `json:"is_folder"`
	Name     string `json:"name"`
	Path     string `json:"path"`

	// Folder fields.
	FolderID   string `json:"folder_id,omitempty"`
	Count      int    `json:"count,omitempty"`
	Offset     int    `json:"offset,omitempty"`
	TotalCount int    `json:"total_count,omitempty"`
	Folders    []Item `json:"folders,omitempty"`
	Files      []Item `json:"files,omitempty"`

	// File fields.
	Checksum     string `json:"checksum,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Locked       bool   `json:"locked,omitempty"`
	EntryID      string `json:"entry_id,omitempty"`
	GroupID      string `json:"group_id,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	UploadedBy   string `json:"uploaded_by,omitempty"`
	NumVersions  int    `json:"num_versions,omitempty"`
}

// ModTime parses LastModified, which Egnyte sends in HTTP date format.
func (i Item) ModTime() (time.Time, error) {
	return parseHTTPTime(i.LastModified)
}

// UploadedFile describes the file version created by an upload.
type UploadedFile struct {
	Checksum     string
	EntryID      string
	LastModified time.Time
}

// FileMetadata is what the content endpoint reports about a download in
// its headers.
type FileMetadata struct {
	Checksum      string
	ETag          string
	ContentType   string
	ContentLength int64
	LastModified  time.Time
}

// DownloadedFile is a fully buffered download.
type DownloadedFile struct {
	FileMetadata
	Data []byte
}

// DownloadedFileStream is a streamed download. Close Data when done.
type DownloadedFileStream struct {
	FileMetadata
	Data io.ReadCloser
}
