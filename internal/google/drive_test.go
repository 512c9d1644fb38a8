package google

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

type recorder struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (r *recorder) add(req recordedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
}

func (r *recorder) only(t *testing.T) recordedRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reqs) != 1 {
		t.Fatalf("got %d requests, want 1: %+v", len(r.reqs), r.reqs)
	}
	return r.reqs[0]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

// newRecordingClient answers every request with status and response and
// records the JSON request body. A nil response writes no body.
func newRecordingClient(t *testing.T, status int, response any) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := json.NewDecoder(r.Body).Decode(&req.Body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
		}
		rec.add(req)
		if response == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, response)
	})
	return c, rec
}

func strPtr(s string) *string { return &s }

func TestAppendTextUsesEndOfSegment(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"documentId": "d1"})

	res, err := c.AppendText(context.Background(), AppendTextInput{DocumentID: "d1", Text: "héllo"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if res.Appended != 5 {
		t.Fatalf("appended = %d, want 5 characters", res.Appended)
	}

	req := rec.only(t)
	if req.Method != http.MethodPost || req.Path != "/docs/documents/d1:batchUpdate" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	requests := req.Body["requests"].([]any)
	insert := requests[0].(map[string]any)["insertText"].(map[string]any)
	if insert["text"] != "héllo" {
		t.Fatalf("insert = %v", insert)
	}
	if _, ok := insert["endOfSegmentLocation"]; !ok {
		t.Fatalf("insert has no endOfSegmentLocation: %v", insert)
	}

	if _, err := c.AppendText(context.Background(), AppendTextInput{DocumentID: "d1"}); err == nil || err.Error() != "text is required" {
		t.Fatalf("empty text err = %v", err)
	}
	if rec.count() != 1 {
		t.Fatal("empty text must not reach the API")
	}
}

func TestGetFileRequestsFields(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"id": "f1", "name": "a.txt"})

	f, err := c.GetFile(context.Background(), FileRef{FileID: "f1"})
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	if f.Name != "a.txt" {
		t.Fatalf("file = %+v", f)
	}
	req := rec.only(t)
	if req.Method != http.MethodGet || req.Path != "/drive/files/f1" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	if req.Query.Get("fields") != fileFields || req.Query.Get("supportsAllDrives") != "true" {
		t.Fatalf("query = %v", req.Query)
	}
}

func TestCreateFolderSetsFolderMimeType(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"id": "fo1", "name": "Reports"})

	if _, err := c.CreateFolder(context.Background(), CreateFolderInput{Name: "Reports", ParentID: "root1"}); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	req := rec.only(t)
	if req.Method != http.MethodPost || req.Path != "/drive/files" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	if req.Body["mimeType"] != mimeGoogleFolder || req.Body["name"] != "Reports" {
		t.Fatalf("body = %v", req.Body)
	}
	if parents := req.Body["parents"].([]any); len(parents) != 1 || parents[0] != "root1" {
		t.Fatalf("parents = %v", parents)
	}
}

func TestUpdateFileMetadataOnly(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"id": "f1", "name": "renamed"})

	_, err := c.UpdateFile(context.Background(), UpdateFileInput{
		FileID:      "f1",
		Name:        strPtr("renamed"),
		Description: strPtr(""),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	req := rec.only(t)
	if req.Method != http.MethodPatch || req.Path != "/drive/files/f1" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	if req.Body["name"] != "renamed" {
		t.Fatalf("body = %v", req.Body)
	}
	// An explicit empty description clears it.
	if desc, ok := req.Body["description"]; !ok || desc != "" {
		t.Fatalf("description = %v (present=%v)", desc, ok)
	}
}

func TestUpdateFileOmitsUnsetFields(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"id": "f1"})

	if _, err := c.UpdateFile(context.Background(), UpdateFileInput{FileID: "f1", Description: strPtr("notes")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	body := rec.only(t).Body
	if _, ok := body["name"]; ok {
		t.Fatalf("unset name was sent: %v", body)
	}
	if body["description"] != "notes" {
		t.Fatalf("body = %v", body)
	}
}

func TestUpdateFileUploadsContent(t *testing.T) {
	var calls int
	var mu sync.Mutex
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		if r.Method != http.MethodPatch || r.URL.Path != "/upload/files/f1" || r.URL.Query().Get("uploadType") != "multipart" {
			t.Errorf("unexpected upload %s %s?%s", r.Method, r.URL.Path, r.URL.RawQuery)
		}
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			t.Errorf("content type: %v", err)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		metaPart, err := mr.NextPart()
		if err != nil {
			t.Errorf("metadata part: %v", err)
			return
		}
		var meta map[string]any
		_ = json.NewDecoder(metaPart).Decode(&meta)
		if meta["name"] != "v2.md" {
			t.Errorf("metadata = %v", meta)
		}
		mediaPart, err := mr.NextPart()
		if err != nil {
			t.Errorf("media part: %v", err)
			return
		}
		if got := mediaPart.Header.Get("Content-Type"); got != "text/markdown" {
			t.Errorf("media type = %q", got)
		}
		content, _ := io.ReadAll(mediaPart)
		if string(content) != "# v2" {
			t.Errorf("content = %q", content)
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "f1", "name": "v2.md"})
	})

	f, err := c.UpdateFile(context.Background(), UpdateFileInput{
		FileID:   "f1",
		Name:     strPtr("v2.md"),
		Content:  strPtr("# v2"),
		MimeType: "text/markdown",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if f.Name != "v2.md" || calls != 1 {
		t.Fatalf("file = %+v, calls = %d", f, calls)
	}
}

func TestUpdateFileRequiresAChange(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"id": "f1"})

	_, err := c.UpdateFile(context.Background(), UpdateFileInput{FileID: "f1", MimeType: "text/plain"})
	if err == nil || !strings.HasPrefix(err.Error(), "nothing to update") {
		t.Fatalf("err = %v", err)
	}
	if rec.count() != 0 {
		t.Fatal("an empty update must not reach the API")
	}
}

func TestCopyFile(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"id": "f2", "name": "copy"})

	f, err := c.CopyFile(context.Background(), CopyFileInput{FileID: "f1", Name: "copy", ParentID: "p9"})
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	req := rec.only(t)
	if req.Method != http.MethodPost || req.Path != "/drive/files/f1/copy" || f.ID != "f2" {
		t.Fatalf("request = %s %s, file = %+v", req.Method, req.Path, f)
	}
	if req.Body["name"] != "copy" || req.Body["parents"].([]any)[0] != "p9" {
		t.Fatalf("body = %v", req.Body)
	}
}

func TestListPermissionsNeverReturnsNil(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{})

	out, err := c.ListPermissions(context.Background(), FileRef{FileID: "f1"})
	if err != nil {
		t.Fatalf("list permissions: %v", err)
	}
	if out.Permissions == nil || len(out.Permissions) != 0 {
		t.Fatalf("permissions = %#v", out.Permissions)
	}
	req := rec.only(t)
	if req.Path != "/drive/files/f1/permissions" || !strings.HasPrefix(req.Query.Get("fields"), "permissions(") {
		t.Fatalf("request = %s?%v", req.Path, req.Query)
	}
}

func TestDeleteOperationsUseDelete(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *Client) (*Deletion, error)
		path   string
		wantID string
	}{
		{
			name:   "permission",
			call:   func(c *Client) (*Deletion, error) { return c.DeletePermission(context.Background(), PermissionRef{FileID: "f1", PermissionID: "p1"}) },
			path:   "/drive/files/f1/permissions/p1",
			wantID: "p1",
		},
		{
			name:   "revision",
			call:   func(c *Client) (*Deletion, error) { return c.DeleteRevision(context.Background(), RevisionRef{FileID: "f1", RevisionID: "r1"}) },
			path:   "/drive/files/f1/revisions/r1",
			wantID: "r1",
		},
		{
			name:   "comment",
			call:   func(c *Client) (*Deletion, error) { return c.DeleteComment(context.Background(), CommentRef{FileID: "f1", CommentID: "c1"}) },
			path:   "/drive/files/f1/comments/c1",
			wantID: "c1",
		},
		{
			name: "reply",
			call: func(c *Client) (*Deletion, error) {
				return c.DeleteReply(context.Background(), ReplyRef{FileID: "f1", CommentID: "c1", ReplyID: "r7"})
			},
			path:   "/drive/files/f1/comments/c1/replies/r7",
			wantID: "r7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRecordingClient(t, http.StatusNoContent, nil)
			del, err := tt.call(c)
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
			req := rec.only(t)
			if req.Method != http.MethodDelete || req.Path != tt.path {
				t.Fatalf("request = %s %s, want DELETE %s", req.Method, req.Path, tt.path)
			}
			if del.ID != tt.wantID || !del.Permanent || !del.Deleted {
				t.Fatalf("deletion = %+v", del)
			}
		})
	}
}

func TestDeleteOperationsRequireIDs(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusNoContent, nil)

	if _, err := c.DeletePermission(context.Background(), PermissionRef{FileID: "f1"}); err == nil || err.Error() != "permissionId is required" {
		t.Fatalf("permission err = %v", err)
	}
	if _, err := c.DeleteReply(context.Background(), ReplyRef{FileID: "f1", CommentID: "c1"}); err == nil || err.Error() != "replyId is required" {
		t.Fatalf("reply err = %v", err)
	}
	if rec.count() != 0 {
		t.Fatal("validation failures must not reach the API")
	}
}

func TestRevisions(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{
		"revisions": []map[string]any{{"id": "r1", "keepForever": true}, {"id": "r2"}},
	})

	list, err := c.ListRevisions(context.Background(), FileRef{FileID: "f1"})
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(list.Revisions) != 2 || !list.Revisions[0].KeepForever {
		t.Fatalf("revisions = %+v", list.Revisions)
	}
	req := rec.only(t)
	if req.Path != "/drive/files/f1/revisions" || req.Query.Get("fields") != "revisions("+revisionFields+")" {
		t.Fatalf("request = %s?%v", req.Path, req.Query)
	}

	c, rec = newRecordingClient(t, http.StatusOK, map[string]any{"id": "r2", "mimeType": "text/plain"})
	rev, err := c.GetRevision(context.Background(), RevisionRef{FileID: "f1", RevisionID: "r2"})
	if err != nil {
		t.Fatalf("get revision: %v", err)
	}
	req = rec.only(t)
	if req.Method != http.MethodGet || req.Path != "/drive/files/f1/revisions/r2" || rev.ID != "r2" {
		t.Fatalf("request = %s %s, revision = %+v", req.Method, req.Path, rev)
	}
	if req.Query.Get("fields") != revisionFields {
		t.Fatalf("fields = %q", req.Query.Get("fields"))
	}
}

func TestListCommentsQuery(t *testing.T) {
	tests := []struct {
		name     string
		in       ListCommentsInput
		pageSize string
		deleted  string
	}{
		{"defaults", ListCommentsInput{FileID: "f1"}, "20", "false"},
		{"clamped", ListCommentsInput{FileID: "f1", PageSize: 500, IncludeDeleted: true, PageToken: "next"}, "100", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRecordingClient(t, http.StatusOK, map[string]any{
				"comments": []map[string]any{{"id": "c1", "content": "hi", "replies": []map[string]any{{"id": "r1", "content": "yo"}}}},
			})
			out, err := c.ListComments(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("list comments: %v", err)
			}
			if len(out.Comments) != 1 || len(out.Comments[0].Replies) != 1 {
				t.Fatalf("comments = %+v", out.Comments)
			}
			q := rec.only(t).Query
			if q.Get("pageSize") != tt.pageSize || q.Get("includeDeleted") != tt.deleted || q.Get("pageToken") != tt.in.PageToken {
				t.Fatalf("query = %v", q)
			}
			// The comments API rejects requests without a field mask.
			if q.Get("fields") != "nextPageToken,comments("+commentFields+")" {
				t.Fatalf("fields = %q", q.Get("fields"))
			}
		})
	}
}

func TestCreateCommentQuotesText(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{"id": "c1", "content": "typo here"})

	if _, err := c.CreateComment(context.Background(), CreateCommentInput{FileID: "f1", Content: "typo here", QuotedText: "teh"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	req := rec.only(t)
	if req.Method != http.MethodPost || req.Path != "/drive/files/f1/comments" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	quoted, ok := req.Body["quotedFileContent"].(map[string]any)
	if !ok || quoted["value"] != "teh" || quoted["mimeType"] != "text/plain" {
		t.Fatalf("body = %v", req.Body)
	}
	if _, ok := req.Body["id"]; ok {
		t.Fatalf("body must not carry an id: %v", req.Body)
	}

	c, rec = newRecordingClient(t, http.StatusOK, map[string]any{"id": "c2", "content": "plain"})
	if _, err := c.CreateComment(context.Background(), CreateCommentInput{FileID: "f1", Content: "plain"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, ok := rec.only(t).Body["quotedFileContent"]; ok {
		t.Fatal("quotedFileContent sent without quoted text")
	}
}

func TestListReplies(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusOK, map[string]any{
		"replies": []map[string]any{{"id": "r1", "content": "done", "action": "resolve"}},
	})

	out, err := c.ListReplies(context.Background(), CommentRef{FileID: "f1", CommentID: "c1"})
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if len(out.Replies) != 1 || out.Replies[0].Action != "resolve" {
		t.Fatalf("replies = %+v", out.Replies)
	}
	req := rec.only(t)
	if req.Path != "/drive/files/f1/comments/c1/replies" || req.Query.Get("fields") != "replies("+replyFields+")" {
		t.Fatalf("request = %s?%v", req.Path, req.Query)
	}
}

func TestDeleteDocumentPermanently(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusNoContent, nil)

	del, err := c.DeleteDocument(context.Background(), DeleteDocumentInput{DocumentID: "d1", Permanent: true})
	if err != nil {
		t.Fatalf("delete document: %v", err)
	}
	req := rec.only(t)
	if req.Method != http.MethodDelete || req.Path != "/drive/files/d1" || del.ID != "d1" || !del.Permanent {
		t.Fatalf("request = %s %s, deletion = %+v", req.Method, req.Path, del)
	}
}
