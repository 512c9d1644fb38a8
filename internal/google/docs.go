package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	mimeGoogleDoc    = "application/vnd.google-apps.document"
	mimeGoogleFolder = "application/vnd.google-apps.folder"
)

type exportFormat struct {
	mimeType string
	text     bool
}

var exportFormats = map[string]exportFormat{
	"txt":  {"text/plain", true},
	"html": {"text/html", true},
	"md":   {"text/markdown", true},
	"rtf":  {"application/rtf", true},
	"pdf":  {"application/pdf", false},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
	"odt":  {"application/vnd.oasis.opendocument.text", false},
	"epub": {"application/epub+zip", false},
}

func documentURL(id string) string {
	return "https://docs.google.com/document/d/" + id + "/edit"
}

// Docs API document body, reduced to what text extraction needs.
type docsDocument struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	RevisionID string `json:"revisionId"`
	Body       struct {
		Content []structuralElement `json:"content"`
	} `json:"body"`
}

type structuralElement struct {
	Paragraph *struct {
		Elements []struct {
			TextRun *struct {
				Content string `json:"content"`
			} `json:"textRun"`
		} `json:"elements"`
	} `json:"paragraph"`
	Table *struct {
		TableRows []struct {
			TableCells []struct {
				Content []structuralElement `json:"content"`
			} `json:"tableCells"`
		} `json:"tableRows"`
	} `json:"table"`
	TableOfContents *struct {
		Content []structuralElement `json:"content"`
	} `json:"tableOfContents"`
}

func extractText(sb *strings.Builder, elems []structuralElement) {
	for _, el := range elems {
		switch {
		case el.Paragraph != nil:
			for _, pe := range el.Paragraph.Elements {
				if pe.TextRun != nil {
					sb.WriteString(pe.TextRun.Content)
				}
			}
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				for _, cell := range row.TableCells {
					extractText(sb, cell.Content)
				}
			}
		case el.TableOfContents != nil:
			extractText(sb, el.TableOfContents.Content)
		}
	}
}

type batchUpdateRequest struct {
	Requests []map[string]any `json:"requests"`
}

type batchUpdateResponse struct {
	Replies []struct {
		ReplaceAllText *struct {
			OccurrencesChanged int `json:"occurrencesChanged"`
		} `json:"replaceAllText"`
	} `json:"replies"`
}

func (c *Client) batchUpdate(ctx context.Context, documentID string, reqs ...map[string]any) (*batchUpdateResponse, error) {
	var out batchUpdateResponse
	u := buildURL(c.docsURL, nil, "documents", documentID) + ":batchUpdate"
	if err := c.doJSON(ctx, "docs.batchUpdate", http.MethodPost, u, batchUpdateRequest{Requests: reqs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDocument(ctx context.Context, in CreateDocumentInput) (*Document, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}

	var created docsDocument
	u := buildURL(c.docsURL, nil, "documents")
	if err := c.doJSON(ctx, "docs.create", http.MethodPost, u, map[string]string{"title": in.Title}, &created); err != nil {
		return nil, err
	}

	if in.Content != "" {
		insert := map[string]any{"insertText": map[string]any{
			"location": map[string]int{"index": 1},
			"text":     in.Content,
		}}
		if _, err := c.batchUpdate(ctx, created.DocumentID, insert); err != nil {
			return nil, fmt.Errorf("document %s created but inserting content failed: %w", created.DocumentID, err)
		}
	}

	return &Document{
		DocumentID: created.DocumentID,
		Title:      created.Title,
		URL:        documentURL(created.DocumentID),
	}, nil
}

func (c *Client) GetDocument(ctx context.Context, in DocumentRef) (*Document, error) {
	if err := required("documentId", in.DocumentID); err != nil {
		return nil, err
	}

	var doc docsDocument
	u := buildURL(c.docsURL, nil, "documents", in.DocumentID)
	if err := c.doJSON(ctx, "docs.get", http.MethodGet, u, nil, &doc); err != nil {
		return nil, err
	}

	var sb strings.Builder
	extractText(&sb, doc.Body.Content)
	return &Document{
		DocumentID: doc.DocumentID,
		Title:      doc.Title,
		URL:        documentURL(doc.DocumentID),
		RevisionID: doc.RevisionID,
		Content:    sb.String(),
	}, nil
}

func (c *Client) AppendText(ctx context.Context, in AppendTextInput) (*AppendResult, error) {
	if err := required("documentId", in.DocumentID); err != nil {
		return nil, err
	}
	if in.Text == "" {
		return nil, fmt.Errorf("text is required")
	}

	insert := map[string]any{"insertText": map[string]any{
		"endOfSegmentLocation": map[string]any{},
		"text":                 in.Text,
	}}
	if _, err := c.batchUpdate(ctx, in.DocumentID, insert); err != nil {
		return nil, err
	}
	return &AppendResult{DocumentID: in.DocumentID, Appended: utf8.RuneCountInString(in.Text)}, nil
}

func (c *Client) ReplaceText(ctx context.Context, in ReplaceTextInput) (*ReplaceResult, error) {
	if err := required("documentId", in.DocumentID); err != nil {
		return nil, err
	}
	if in.SearchText == "" {
		return nil, fmt.Errorf("searchText is required")
	}

	replace := map[string]any{"replaceAllText": map[string]any{
		"containsText": map[string]any{"text": in.SearchText, "matchCase": in.MatchCase},
		"replaceText":  in.ReplaceText,
	}}
	resp, err := c.batchUpdate(ctx, in.DocumentID, replace)
	if err != nil {
		return nil, err
	}

	out := &ReplaceResult{DocumentID: in.DocumentID}
	if len(resp.Replies) > 0 && resp.Replies[0].ReplaceAllText != nil {
		out.OccurrencesChanged = resp.Replies[0].ReplaceAllText.OccurrencesChanged
	}
	return out, nil
}

func (c *Client) ListDocuments(ctx context.Context, in ListDocumentsInput) (*DocumentList, error) {
	q := "mimeType = " + quoteQuery(mimeGoogleDoc) + " and trashed = false"
	if in.Query != "" {
		q += " and name contains " + quoteQuery(in.Query)
	}

	params := url.Values{
		"q":        {q},
		"pageSize": {strconv.Itoa(clampPageSize(in.PageSize, 10, 100))},
		"orderBy":  {"modifiedTime desc"},
		"fields":   {"nextPageToken,files(" + fileFields + ")"},
	}
	if in.PageToken != "" {
		params.Set("pageToken", in.PageToken)
	}

	var list FileList
	if err := c.doJSON(ctx, "drive.files.list", http.MethodGet, buildURL(c.driveURL, params, "files"), nil, &list); err != nil {
		return nil, err
	}
	docs := list.Files
	if docs == nil {
		docs = []File{}
	}
	return &DocumentList{Documents: docs, NextPageToken: list.NextPageToken}, nil
}

func (c *Client) DeleteDocument(ctx context.Context, in DeleteDocumentInput) (*Deletion, error) {
	if err := required("documentId", in.DocumentID); err != nil {
		return nil, err
	}
	return c.deleteFile(ctx, in.DocumentID, in.Permanent)
}

func (c *Client) ExportDocument(ctx context.Context, in ExportDocumentInput) (*ExportResult, error) {
	if err := required("documentId", in.DocumentID); err != nil {
		return nil, err
	}
	format := strings.ToLower(in.Format)
	if format == "" {
		format = "txt"
	}
	ef, ok := exportFormats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", in.Format)
	}

	u := buildURL(c.driveURL, url.Values{"mimeType": {ef.mimeType}}, "files", in.DocumentID, "export")
	resp, err := c.send(ctx, "drive.files.export", http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export body: %w", err)
	}

	out := &ExportResult{DocumentID: in.DocumentID, Format: format, MimeType: ef.mimeType}
	if ef.text {
		out.Encoding = "utf-8"
		out.Content = string(raw)
	} else {
		out.Encoding = "base64"
		out.Content = base64.StdEncoding.EncodeToString(raw)
	}
	return out, nil
}
