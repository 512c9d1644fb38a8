package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		AccessToken:   "test-token",
		DocsBaseURL:   srv.URL + "/docs",
		DriveBaseURL:  srv.URL + "/drive",
		UploadBaseURL: srv.URL + "/upload",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestParseRSAPrivateKeyPKCS1AndPKCS8(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	parsed1, err := parseRSAPrivateKey(x509.MarshalPKCS1PrivateKey(key))
	if err != nil {
		t.Fatalf("parse pkcs1: %v", err)
	}
	if parsed1.N.Cmp(key.N) != 0 {
		t.Fatal("parsed pkcs1 key does not match original")
	}

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8: %v", err)
	}
	parsed8, err := parseRSAPrivateKey(pkcs8)
	if err != nil {
		t.Fatalf("parse pkcs8: %v", err)
	}
	if parsed8.N.Cmp(key.N) != 0 {
		t.Fatal("parsed pkcs8 key does not match original")
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	if err == nil || !strings.Contains(err.Error(), "GOOGLE_ACCESS_TOKEN") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestServiceAccountTokenIsCached(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	var tokenHits atomic.Int32
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			tokenHits.Add(1)
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if got := r.PostForm.Get("grant_type"); got != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
				t.Errorf("grant_type = %q", got)
			}
			claims := &assertionClaims{}
			_, err := jwt.ParseWithClaims(r.PostForm.Get("assertion"), claims, func(tok *jwt.Token) (any, error) {
				if tok.Header["kid"] != "key-1" {
					t.Errorf("kid = %v", tok.Header["kid"])
				}
				return &key.PublicKey, nil
			}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithAudience(srvURL+"/token"))
			if err != nil {
				t.Errorf("verify assertion: %v", err)
			}
			if claims.Issuer != "svc@example.iam.gserviceaccount.com" || claims.Subject != "alice@example.com" {
				t.Errorf("unexpected claims iss=%q sub=%q", claims.Issuer, claims.Subject)
			}
			if !strings.Contains(claims.Scope, "auth/documents") {
				t.Errorf("scope = %q", claims.Scope)
			}
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "sa-token", "expires_in": 3600, "token_type": "Bearer"})
		case "/docs/documents/doc1":
			if got := r.Header.Get("Authorization"); got != "Bearer sa-token" {
				t.Errorf("authorization = %q", got)
			}
			writeJSON(w, http.StatusOK, map[string]any{"documentId": "doc1", "title": "T"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	keyJSON, _ := json.Marshal(serviceAccountKey{
		Type:         "service_account",
		ClientEmail:  "svc@example.iam.gserviceaccount.com",
		PrivateKey:   string(pemKey),
		PrivateKeyID: "key-1",
	})
	c, err := NewClient(Config{
		ServiceAccountKey: string(keyJSON),
		Subject:           "alice@example.com",
		DocsBaseURL:       srv.URL + "/docs",
		TokenURL:          srv.URL + "/token",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.GetDocument(context.Background(), DocumentRef{DocumentID: "doc1"}); err != nil {
			t.Fatalf("get document: %v", err)
		}
	}
	if got := tokenHits.Load(); got != 1 {
		t.Fatalf("token endpoint hit %d times, want 1", got)
	}
}

func TestCreateDocumentInsertsContent(t *testing.T) {
	var sawInsert bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/docs/documents":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusOK, map[string]any{"documentId": "abc123", "title": body["title"]})
		case r.Method == http.MethodPost && r.URL.Path == "/docs/documents/abc123:batchUpdate":
			raw, _ := io.ReadAll(r.Body)
			sawInsert = strings.Contains(string(raw), `"insertText"`) && strings.Contains(string(raw), `"index":1`)
			writeJSON(w, http.StatusOK, map[string]any{"replies": []any{map[string]any{}}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})

	doc, err := c.CreateDocument(context.Background(), CreateDocumentInput{Title: "Report", Content: "hello"})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	if doc.DocumentID != "abc123" || doc.Title != "Report" || doc.URL != "https://docs.google.com/document/d/abc123/edit" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !sawInsert {
		t.Fatal("initial content was not inserted at index 1")
	}
}

func TestCreateDocumentRequiresTitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("provider should not call the API")
	})
	if _, err := c.CreateDocument(context.Background(), CreateDocumentInput{}); err == nil || err.Error() != "title is required" {
		t.Fatalf("expected title is required, got %v", err)
	}
}

func TestGetDocumentExtractsText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"documentId": "d1",
			"title": "Notes",
			"revisionId": "r9",
			"body": {"content": [
				{"sectionBreak": {}},
				{"paragraph": {"elements": [{"textRun": {"content": "Hello "}}, {"textRun": {"content": "world\n"}}]}},
				{"table": {"tableRows": [{"tableCells": [
					{"content": [{"paragraph": {"elements": [{"textRun": {"content": "A1\n"}}]}}]},
					{"content": [{"paragraph": {"elements": [{"textRun": {"content": "B1\n"}}]}}]}
				]}]}}
			]}
		}`)
	})

	doc, err := c.GetDocument(context.Background(), DocumentRef{DocumentID: "d1"})
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc.Content != "Hello world\nA1\nB1\n" {
		t.Fatalf("content = %q", doc.Content)
	}
	if doc.RevisionID != "r9" || doc.Title != "Notes" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestAPIErrorUsesGoogleMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{
			"code": 404, "message": "Requested entity was not found.", "status": "NOT_FOUND",
		}})
	})

	_, err := c.GetDocument(context.Background(), DocumentRef{DocumentID: "missing"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Requested entity was not found." {
		t.Fatalf("error = %q", err.Error())
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Status != "NOT_FOUND" || apiErr.Operation != "docs.get" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestReplaceTextReportsOccurrences(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req batchUpdateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		ra := req.Requests[0]["replaceAllText"].(map[string]any)
		if ra["replaceText"] != "new" {
			t.Errorf("replaceText = %v", ra["replaceText"])
		}
		writeJSON(w, http.StatusOK, map[string]any{"replies": []any{
			map[string]any{"replaceAllText": map[string]any{"occurrencesChanged": 3}},
		}})
	})

	res, err := c.ReplaceText(context.Background(), ReplaceTextInput{DocumentID: "d1", SearchText: "old", ReplaceText: "new"})
	if err != nil {
		t.Fatalf("replace text: %v", err)
	}
	if res.OccurrencesChanged != 3 {
		t.Fatalf("occurrences = %d", res.OccurrencesChanged)
	}
}

func TestExportDocumentEncoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drive/files/d1/export" {
			t.Errorf("path = %s", r.URL.Path)
		}
		switch r.URL.Query().Get("mimeType") {
		case "text/plain":
			_, _ = io.WriteString(w, "plain text")
		case "application/pdf":
			_, _ = w.Write([]byte{0x25, 0x50, 0x44, 0x46, 0x00})
		default:
			t.Errorf("mimeType = %s", r.URL.Query().Get("mimeType"))
		}
	})

	txt, err := c.ExportDocument(context.Background(), ExportDocumentInput{DocumentID: "d1", Format: "txt"})
	if err != nil {
		t.Fatalf("export txt: %v", err)
	}
	if txt.Encoding != "utf-8" || txt.Content != "plain text" {
		t.Fatalf("unexpected txt export %+v", txt)
	}

	pdf, err := c.ExportDocument(context.Background(), ExportDocumentInput{DocumentID: "d1", Format: "pdf"})
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if pdf.Encoding != "base64" || pdf.Content != base64.StdEncoding.EncodeToString([]byte{0x25, 0x50, 0x44, 0x46, 0x00}) {
		t.Fatalf("unexpected pdf export %+v", pdf)
	}

	if _, err := c.ExportDocument(context.Background(), ExportDocumentInput{DocumentID: "d1", Format: "xls"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestListFilesBuildsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := `(name contains 'plan') and mimeType = 'text/plain' and 'folder1' in parents and trashed = false`
		if q.Get("q") != want {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("pageSize") != "1000" {
			t.Errorf("pageSize = %q", q.Get("pageSize"))
		}
		if q.Get("orderBy") != "modifiedTime desc" {
			t.Errorf("orderBy = %q", q.Get("orderBy"))
		}
		writeJSON(w, http.StatusOK, map[string]any{"files": []any{map[string]any{"id": "f1", "name": "plan.txt"}}, "nextPageToken": "p2"})
	})

	list, err := c.ListFiles(context.Background(), ListFilesInput{
		Query: "name contains 'plan'", MimeType: "text/plain", FolderID: "folder1", PageSize: 5000,
	})
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(list.Files) != 1 || list.NextPageToken != "p2" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestListDocumentsEscapesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, `name contains 'Bob\'s'`) || !strings.Contains(q, mimeGoogleDoc) {
			t.Errorf("q = %q", q)
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	list, err := c.ListDocuments(context.Background(), ListDocumentsInput{Query: "Bob's"})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if list.Documents == nil {
		t.Fatal("documents should be an empty slice, not nil")
	}
}

func TestCreateFileUploadsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/files" || r.URL.Query().Get("uploadType") != "multipart" {
			t.Errorf("unexpected upload target %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/related" {
			t.Errorf("content type = %q (%v)", r.Header.Get("Content-Type"), err)
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
		if meta["name"] != "notes.txt" || meta["parents"].([]any)[0] != "folder1" {
			t.Errorf("metadata = %v", meta)
		}

		mediaPart, err := mr.NextPart()
		if err != nil {
			t.Errorf("media part: %v", err)
			return
		}
		content, _ := io.ReadAll(mediaPart)
		if string(content) != "hello drive" {
			t.Errorf("content = %q", content)
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "f1", "name": "notes.txt", "mimeType": "text/plain"})
	})

	f, err := c.CreateFile(context.Background(), CreateFileInput{Name: "notes.txt", Content: "hello drive", ParentID: "folder1"})
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	if f.ID != "f1" {
		t.Fatalf("unexpected file %+v", f)
	}
}

func TestDeleteFileTrashesByDefault(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPatch {
			raw, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(raw), `"trashed":true`) {
				t.Errorf("trash body = %s", raw)
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "f1"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if _, err := c.DeleteFile(context.Background(), DeleteFileInput{FileID: "f1"}); err != nil {
		t.Fatalf("trash: %v", err)
	}
	del, err := c.DeleteFile(context.Background(), DeleteFileInput{FileID: "f1", Permanent: true})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !del.Permanent || strings.Join(methods, ",") != "PATCH,DELETE" {
		t.Fatalf("methods = %v, deletion = %+v", methods, del)
	}
}

func TestMoveFileReplacesParents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"id": "f1", "parents": []string{"p1", "p2"}})
		case http.MethodPatch:
			q := r.URL.Query()
			if q.Get("addParents") != "dest" || q.Get("removeParents") != "p1,p2" {
				t.Errorf("query = %s", r.URL.RawQuery)
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "f1", "parents": []string{"dest"}})
		}
	})

	f, err := c.MoveFile(context.Background(), MoveFileInput{FileID: "f1", NewParentID: "dest"})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(f.Parents) != 1 || f.Parents[0] != "dest" {
		t.Fatalf("parents = %v", f.Parents)
	}
}

func TestCreatePermissionValidation(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		if q.Has("sendNotificationEmail") {
			t.Errorf("sendNotificationEmail must not be sent for anyone permissions")
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "anyoneWithLink", "type": "anyone", "role": "reader"})
	})

	_, err := c.CreatePermission(context.Background(), CreatePermissionInput{FileID: "f1", Role: "writer", Type: "user"})
	if err == nil || !strings.Contains(err.Error(), "emailAddress is required") {
		t.Fatalf("expected email validation error, got %v", err)
	}

	p, err := c.CreatePermission(context.Background(), CreatePermissionInput{FileID: "f1", Role: "reader", Type: "anyone", SendNotificationEmail: true})
	if err != nil {
		t.Fatalf("create permission: %v", err)
	}
	if p.ID != "anyoneWithLink" || hits.Load() != 1 {
		t.Fatalf("unexpected permission %+v (hits=%d)", p, hits.Load())
	}
}

func TestCreateReplyRejectsUnknownAction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("provider should not call the API")
	})
	_, err := c.CreateReply(context.Background(), CreateReplyInput{FileID: "f", CommentID: "c", Content: "x", Action: "close"})
	if err == nil {
		t.Fatal("expected error for unsupported action")
	}
}
