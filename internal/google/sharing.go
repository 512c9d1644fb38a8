package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	permissionFields = "id,type,role,emailAddress,domain,displayName"
	revisionFields   = "id,mimeType,modifiedTime,keepForever,size,originalFilename,lastModifyingUser(displayName,emailAddress)"
	replyFields      = "id,content,action,author(displayName,emailAddress),createdTime,modifiedTime,deleted"
	commentFields    = "id,content,author(displayName,emailAddress),createdTime,modifiedTime,resolved,deleted,quotedFileContent,replies(" + replyFields + ")"
)

func (c *Client) ListPermissions(ctx context.Context, in FileRef) (*PermissionList, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	params := url.Values{"fields": {"permissions(" + permissionFields + ")"}, "supportsAllDrives": {"true"}}
	var out PermissionList
	if err := c.doJSON(ctx, "drive.permissions.list", http.MethodGet, buildURL(c.driveURL, params, "files", in.FileID, "permissions"), nil, &out); err != nil {
		return nil, err
	}
	if out.Permissions == nil {
		out.Permissions = []Permission{}
	}
	return &out, nil
}

func (c *Client) CreatePermission(ctx context.Context, in CreatePermissionInput) (*Permission, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	role, typ := in.Role, in.Type
	if role == "" {
		role = "reader"
	}
	if typ == "" {
		typ = "user"
	}

	body := map[string]string{"role": role, "type": typ}
	switch typ {
	case "user", "group":
		if err := required("emailAddress", in.EmailAddress); err != nil {
			return nil, fmt.Errorf("%w for %s permissions", err, typ)
		}
		body["emailAddress"] = in.EmailAddress
	case "domain":
		if err := required("domain", in.Domain); err != nil {
			return nil, fmt.Errorf("%w for domain permissions", err)
		}
		body["domain"] = in.Domain
	}

	params := url.Values{"fields": {permissionFields}, "supportsAllDrives": {"true"}}
	if typ == "user" || typ == "group" {
		params.Set("sendNotificationEmail", strconv.FormatBool(in.SendNotificationEmail))
		if in.SendNotificationEmail && in.EmailMessage != "" {
			params.Set("emailMessage", in.EmailMessage)
		}
	}
	if role == "owner" {
		params.Set("transferOwnership", "true")
	}

	var out Permission
	if err := c.doJSON(ctx, "drive.permissions.create", http.MethodPost, buildURL(c.driveURL, params, "files", in.FileID, "permissions"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePermission(ctx context.Context, in PermissionRef) (*Deletion, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("permissionId", in.PermissionID); err != nil {
		return nil, err
	}
	u := buildURL(c.driveURL, url.Values{"supportsAllDrives": {"true"}}, "files", in.FileID, "permissions", in.PermissionID)
	if err := c.doJSON(ctx, "drive.permissions.delete", http.MethodDelete, u, nil, nil); err != nil {
		return nil, err
	}
	return &Deletion{ID: in.PermissionID, Permanent: true, Deleted: true}, nil
}

func (c *Client) ListRevisions(ctx context.Context, in FileRef) (*RevisionList, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	params := url.Values{"fields": {"revisions(" + revisionFields + ")"}}
	var out RevisionList
	if err := c.doJSON(ctx, "drive.revisions.list", http.MethodGet, buildURL(c.driveURL, params, "files", in.FileID, "revisions"), nil, &out); err != nil {
		return nil, err
	}
	if out.Revisions == nil {
		out.Revisions = []Revision{}
	}
	return &out, nil
}

func (c *Client) GetRevision(ctx context.Context, in RevisionRef) (*Revision, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("revisionId", in.RevisionID); err != nil {
		return nil, err
	}
	var out Revision
	u := buildURL(c.driveURL, url.Values{"fields": {revisionFields}}, "files", in.FileID, "revisions", in.RevisionID)
	if err := c.doJSON(ctx, "drive.revisions.get", http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRevision(ctx context.Context, in RevisionRef) (*Deletion, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("revisionId", in.RevisionID); err != nil {
		return nil, err
	}
	u := buildURL(c.driveURL, nil, "files", in.FileID, "revisions", in.RevisionID)
	if err := c.doJSON(ctx, "drive.revisions.delete", http.MethodDelete, u, nil, nil); err != nil {
		return nil, err
	}
	return &Deletion{ID: in.RevisionID, Permanent: true, Deleted: true}, nil
}

func (c *Client) ListComments(ctx context.Context, in ListCommentsInput) (*CommentList, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	params := url.Values{
		"fields":         {"nextPageToken,comments(" + commentFields + ")"},
		"includeDeleted": {strconv.FormatBool(in.IncludeDeleted)},
		"pageSize":       {strconv.Itoa(clampPageSize(in.PageSize, 20, 100))},
	}
	if in.PageToken != "" {
		params.Set("pageToken", in.PageToken)
	}
	var out CommentList
	if err := c.doJSON(ctx, "drive.comments.list", http.MethodGet, buildURL(c.driveURL, params, "files", in.FileID, "comments"), nil, &out); err != nil {
		return nil, err
	}
	if out.Comments == nil {
		out.Comments = []Comment{}
	}
	return &out, nil
}

func (c *Client) CreateComment(ctx context.Context, in CreateCommentInput) (*Comment, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("content", in.Content); err != nil {
		return nil, err
	}
	body := map[string]any{"content": in.Content}
	if in.QuotedText != "" {
		body["quotedFileContent"] = QuotedContent{MimeType: "text/plain", Value: in.QuotedText}
	}
	var out Comment
	u := buildURL(c.driveURL, url.Values{"fields": {commentFields}}, "files", in.FileID, "comments")
	if err := c.doJSON(ctx, "drive.comments.create", http.MethodPost, u, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, in CommentRef) (*Deletion, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("commentId", in.CommentID); err != nil {
		return nil, err
	}
	u := buildURL(c.driveURL, nil, "files", in.FileID, "comments", in.CommentID)
	if err := c.doJSON(ctx, "drive.comments.delete", http.MethodDelete, u, nil, nil); err != nil {
		return nil, err
	}
	return &Deletion{ID: in.CommentID, Permanent: true, Deleted: true}, nil
}

func (c *Client) ListReplies(ctx context.Context, in CommentRef) (*ReplyList, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("commentId", in.CommentID); err != nil {
		return nil, err
	}
	params := url.Values{"fields": {"replies(" + replyFields + ")"}}
	var out ReplyList
	if err := c.doJSON(ctx, "drive.replies.list", http.MethodGet, buildURL(c.driveURL, params, "files", in.FileID, "comments", in.CommentID, "replies"), nil, &out); err != nil {
		return nil, err
	}
	if out.Replies == nil {
		out.Replies = []Reply{}
	}
	return &out, nil
}

func (c *Client) CreateReply(ctx context.Context, in CreateReplyInput) (*Reply, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("commentId", in.CommentID); err != nil {
		return nil, err
	}
	if in.Content == "" && in.Action == "" {
		return nil, fmt.Errorf("content is required")
	}
	switch in.Action {
	case "", "resolve", "reopen":
	default:
		return nil, fmt.Errorf("unsupported reply action %q", in.Action)
	}

	body := map[string]string{"content": in.Content}
	if in.Action != "" {
		body["action"] = in.Action
	}
	var out Reply
	u := buildURL(c.driveURL, url.Values{"fields": {replyFields}}, "files", in.FileID, "comments", in.CommentID, "replies")
	if err := c.doJSON(ctx, "drive.replies.create", http.MethodPost, u, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReply(ctx context.Context, in ReplyRef) (*Deletion, error) {
	if err := required("fileId", in.FileID); err != nil {
		return nil, err
	}
	if err := required("commentId", in.CommentID); err != nil {
		return nil, err
	}
	if err := required("replyId", in.ReplyID); err != nil {
		return nil, err
	}
	u := buildURL(c.driveURL, nil, "files", in.FileID, "comments", in.CommentID, "replies", in.ReplyID)
	if err := c.doJSON(ctx, "drive.replies.delete", http.MethodDelete, u, nil, nil); err != nil {
		return nil, err
	}
	return &Deletion{ID: in.ReplyID, Permanent: true, Deleted: true}, nil
}
