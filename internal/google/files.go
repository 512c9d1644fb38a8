package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

const fileFields = "id,name,mimeType,description,parents,webViewLink,createdTime,modifiedTime,size,trashed,owners(displayName,emailAddress)"

func fileQuery(extra url.Values) url.Values {
	q := url.Values{
		"fields":            {fileFields},
		"supportsAllDrives": {"true"},
	}
	for k, v := range extra {
		q[k] = v
	}
	return q
}

func (c *Client) ListFiles(ctx context.Context, in ListFilesInput) (*FileList, error) {
	var clauses []string
	if in.Query != "" {
		clauses = append(clauses, "("+in.Query+")")
	}
	if in.MimeType != "" {
		clauses = append(clauses, "mimeType = "+quoteQuery(in.MimeType))
	}
	if in.FolderID != "" {
		clauses = append(clauses, quoteQuery(in.FolderID)+" in parents")
	}
	if !strings.Contains(in.Query, "trashed") {
		clauses = append(clauses, "trashed = false")
	}

	orderBy := in.OrderBy
	if orderBy == "" {
		orderBy = "modifiedTime desc"
	}
	params := url.Values{
		"q":                         {strings.Join(clauses, " and ")},
		"pageSize":                  {strconv.Itoa(clampPageSize(in.PageSize, 20, 1000))},
		"orderBy":                   {orderBy},
		"fields":                    {"nextPageToken,files(" + fileFields + ")"},
		"supportsAllDrives":         {"true"},
		"includeItemsFromAllDrives": {"true"},
	}
	if in.PageToken != "" {
		params.Set("pageToken", in.PageToken)
	}

	var list FileList
	if err := c.doJSON(ctx, "drive.files.list", http.MethodGet, buildURL(c.driveURL, params, "files"), nil, &list); err != nil {
		return nil, err
	}
	if list.Files == nil {
		list.Files = []File{}
	}
	return &list, nil
}

func (c *Client) GetFile(ctx context.Context, in FileRef) (*File, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	var f File
	if err := c.doJSON(ctx, "drive.files.get", http.MethodGet, buildURL(c.driveURL, fileQuery(nil), "files", in.FileID), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

type fileMetadata struct {
	Name        *string  `json:"name,omitempty"`
	MimeType    string   `json:"mimeType,omitempty"`
	Description *string  `json:"description,omitempty"`
	Parents     []string `json:"parents,omitempty"`
	Trashed     *bool    `json:"trashed,omitempty"`
}

// multipartBody builds a multipart/related upload: JSON metadata first,
// then the media part.
func multipartBody(meta fileMetadata, mediaType, content string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	metaPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return nil, "", fmt.Errorf("encode metadata: %w", err)
	}

	if mediaType == "" {
		mediaType = "text/plain"
	}
	mediaPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {mediaType}})
	if err != nil {
		return nil, "", err
	}
	if _, err := mediaPart.Write([]byte(content)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, "multipart/related; boundary=" + mw.Boundary(), nil
}

func (c *Client) upload(ctx context.Context, op, method, rawURL string, meta fileMetadata, mediaType, content string) (*File, error) {
	body, contentType, err := multipartBody(meta, mediaType, content)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, op, method, rawURL, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var f File
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	return &f, nil
}

func (c *Client) CreateFile(ctx context.Context, in CreateFileInput) (*File, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = "text/plain"
	}
	meta := fileMetadata{Name: &in.Name, MimeType: mimeType}
	if in.Description != "" {
		meta.Description = &in.Description
	}
	if in.ParentID != "" {
		meta.Parents = []string{in.ParentID}
	}

	if in.Content == "" {
		var f File
		if err := c.doJSON(ctx, "drive.files.create", http.MethodPost, buildURL(c.driveURL, fileQuery(nil), "files"), meta, &f); err != nil {
			return nil, err
		}
		return &f, nil
	}

	u := buildURL(c.uploadURL, fileQuery(url.Values{"uploadType": {"multipart"}}), "files")
	return c.upload(ctx, "drive.files.create", http.MethodPost, u, meta, mimeType, in.Content)
}

func (c *Client) CreateFolder(ctx context.Context, in CreateFolderInput) (*File, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	meta := fileMetadata{Name: &in.Name, MimeType: mimeGoogleFolder}
	if in.ParentID != "" {
		meta.Parents = []string{in.ParentID}
	}
	var f File
	if err := c.doJSON(ctx, "drive.files.create", http.MethodPost, buildURL(c.driveURL, fileQuery(nil), "files"), meta, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) UpdateFile(ctx context.Context, in UpdateFileInput) (*File, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	meta := fileMetadata{Name: in.Name, Description: in.Description}

	if in.Content != nil {
		u := buildURL(c.uploadURL, fileQuery(url.Values{"uploadType": {"multipart"}}), "files", in.FileID)
		return c.upload(ctx, "drive.files.update", http.MethodPatch, u, meta, in.MimeType, *in.Content)
	}
	if in.Name == nil && in.Description == nil {
		return nil, fmt.Errorf("nothing to update: provide name, description or content")
	}

	var f File
	if err := c.doJSON(ctx, "drive.files.update", http.MethodPatch, buildURL(c.driveURL, fileQuery(nil), "files", in.FileID), meta, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) DeleteFile(ctx context.Context, in DeleteFileInput) (*Deletion, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	return c.deleteFile(ctx, in.FileID, in.Permanent)
}

func (c *Client) deleteFile(ctx context.Context, id string, permanent bool) (*Deletion, error) {
	if permanent {
		u := buildURL(c.driveURL, url.Values{"supportsAllDrives": {"true"}}, "files", id)
		if err := c.doJSON(ctx, "drive.files.delete", http.MethodDelete, u, nil, nil); err != nil {
			return nil, err
		}
		return &Deletion{ID: id, Permanent: true, Deleted: true}, nil
	}

	trashed := true
	u := buildURL(c.driveURL, fileQuery(nil), "files", id)
	if err := c.doJSON(ctx, "drive.files.trash", http.MethodPatch, u, fileMetadata{Trashed: &trashed}, nil); err != nil {
		return nil, err
	}
	return &Deletion{ID: id, Permanent: false, Deleted: true}, nil
}

func (c *Client) CopyFile(ctx context.Context, in CopyFileInput) (*File, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	var meta fileMetadata
	if in.Name != "" {
		meta.Name = &in.Name
	}
	if in.ParentID != "" {
		meta.Parents = []string{in.ParentID}
	}
	var f File
	if err := c.doJSON(ctx, "drive.files.copy", http.MethodPost, buildURL(c.driveURL, fileQuery(nil), "files", in.FileID, "copy"), meta, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// MoveFile replaces every current parent of the file with NewParentID.
func (c *Client) MoveFile(ctx context.Context, in MoveFileInput) (*File, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("newParentId", in.NewParentID); err != nil {
		return nil, err
	}

	var current File
	getURL := buildURL(c.driveURL, url.Values{"fields": {"id,parents"}, "supportsAllDrives": {"true"}}, "files", in.FileID)
	if err := c.doJSON(ctx, "drive.files.get", http.MethodGet, getURL, nil, &current); err != nil {
		return nil, err
	}

	params := url.Values{"addParents": {in.NewParentID}}
	if len(current.Parents) > 0 {
		params.Set("removeParents", strings.Join(current.Parents, ","))
	}
	var f File
	if err := c.doJSON(ctx, "drive.files.move", http.MethodPatch, buildURL(c.driveURL, fileQuery(params), "files", in.FileID), struct{}{}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
