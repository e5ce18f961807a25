package egnyte

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	filesEndpoint   = "/pubapi/" + APIVersion + "/fs/"
	contentEndpoint = "/pubapi/" + APIVersion + "/fs-content/"

	headerChecksum = "X-Sha512-Checksum"
)

// FilesService wraps the /fs and /fs-content endpoints.
// Docs: https://developers.egnyte.com/docs/read/File_System_Management_API_Documentation
type FilesService struct {
	client *Client
}

type fsAction struct {
	Action      string `json:"action"`
	Destination string `json:"destination,omitempty"`
}

// CreateFolder creates the folder at path. Parent folders must exist.
func (s *FilesService) CreateFolder(ctx context.Context, path string) (bool, error) {
	if err := requireArg("path", path); err != nil {
		return false, err
	}
	return s.action(ctx, path, fsAction{Action: "add_folder"})
}

// Copy copies the file or folder at path to destination.
func (s *FilesService) Copy(ctx context.Context, path, destination string) (bool, error) {
	if err := requireArg("path", path); err != nil {
		return false, err
	}
	if err := requireArg("destination", destination); err != nil {
		return false, err
	}
	return s.action(ctx, path, fsAction{Action: "copy", Destination: destination})
}

// Move moves the file or folder at path to destination.
func (s *FilesService) Move(ctx context.Context, path, destination string) (bool, error) {
	if err := requireArg("path", path); err != nil {
		return false, err
	}
	if err := requireArg("destination", destination); err != nil {
		return false, err
	}
	return s.action(ctx, path, fsAction{Action: "move", Destination: destination})
}

// ListFileOrFolder returns the metadata of path. For folders the direct
// children are included in Folders and Files.
func (s *FilesService) ListFileOrFolder(ctx context.Context, path string) (*Item, error) {
	if err := requireArg("path", path); err != nil {
		return nil, err
	}
	req, err := s.client.newRequest(ctx, http.MethodGet, filesEndpoint+escapePath(path), nil)
	if err != nil {
		return nil, err
	}
	resp, err := Decode[Item](ctx, s.client.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteFileOrFolder deletes path and, for folders, everything under it.
func (s *FilesService) DeleteFileOrFolder(ctx context.Context, path string) (bool, error) {
	if err := requireArg("path", path); err != nil {
		return false, err
	}
	req, err := s.client.newRequest(ctx, http.MethodDelete, filesEndpoint+escapePath(path), nil)
	if err != nil {
		return false, err
	}
	if _, err := Decode[string](ctx, s.client.dispatcher, req); err != nil {
		return false, err
	}
	return true, nil
}

// CreateOrUpdateFile uploads content to path, creating a new version when
// the file already exists.
func (s *FilesService) CreateOrUpdateFile(ctx context.Context, path string, content io.Reader) (*UploadedFile, error) {
	if err := requireArg("path", path); err != nil {
		return nil, err
	}
	req, err := s.client.newRequest(ctx, http.MethodPost, contentEndpoint+escapePath(path), content)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := Decode[struct {
		Checksum string `json:"checksum"`
	}](ctx, s.client.dispatcher, req)
	if err != nil {
		return nil, err
	}

	// A malformed Last-Modified is not worth failing a finished upload.
	modified, _ := parseHTTPTime(resp.Headers["Last-Modified"])
	return &UploadedFile{
		Checksum:     resp.Data.Checksum,
		EntryID:      unquoteETag(resp.Headers["Etag"]),
		LastModified: modified,
	}, nil
}

// DownloadFile downloads path into memory.
func (s *FilesService) DownloadFile(ctx context.Context, path string) (*DownloadedFile, error) {
	if err := requireArg("path", path); err != nil {
		return nil, err
	}
	req, err := s.client.newRequest(ctx, http.MethodGet, contentEndpoint+escapePath(path), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.dispatcher.DownloadBytes(ctx, req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(resp.Data)}
	}
	return &DownloadedFile{
		FileMetadata: fileMetadata(resp.Headers),
		Data:         resp.Data,
	}, nil
}

// DownloadFileAsStream downloads path without buffering it. The caller
// must close the returned Data.
func (s *FilesService) DownloadFileAsStream(ctx context.Context, path string) (*DownloadedFileStream, error) {
	if err := requireArg("path", path); err != nil {
		return nil, err
	}
	req, err := s.client.newRequest(ctx, http.MethodGet, contentEndpoint+escapePath(path), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.dispatcher.DownloadStream(ctx, req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		defer resp.Data.Close()
		body, err := io.ReadAll(resp.Data)
		if err != nil {
			return nil, err
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return &DownloadedFileStream{
		FileMetadata: fileMetadata(resp.Headers),
		Data:         resp.Data,
	}, nil
}

func (s *FilesService) action(ctx context.Context, path string, a fsAction) (bool, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	req, err := s.client.newRequest(ctx, http.MethodPost, filesEndpoint+escapePath(path), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := Decode[string](ctx, s.client.dispatcher, req); err != nil {
		return false, err
	}
	return true, nil
}

func fileMetadata(h map[string]string) FileMetadata {
	md := FileMetadata{
		Checksum:    h[headerChecksum],
		ETag:        unquoteETag(h["Etag"]),
		ContentType: h["Content-Type"],
	}
	if n, err := strconv.ParseInt(h["Content-Length"], 10, 64); err == nil {
		md.ContentLength = n
	}
	md.LastModified, _ = parseHTTPTime(h["Last-Modified"])
	return md
}

func parseHTTPTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return http.ParseTime(s)
}

func unquoteETag(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
