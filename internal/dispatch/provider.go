package dispatch

import (
	"context"

	"github.com/joseb33w/google-docs-mcp-server/internal/google"
)

// Provider performs the remote work behind each catalog operation.
// *google.Client is the production implementation.
type Provider interface {
	CreateDocument(ctx context.Context, in google.CreateDocumentInput) (*google.Document, error)
	GetDocument(ctx context.Context, in google.DocumentRef) (*google.Document, error)
	AppendText(ctx context.Context, in google.AppendTextInput) (*google.AppendResult, error)
	ReplaceText(ctx context.Context, in google.ReplaceTextInput) (*google.ReplaceResult, error)
	ListDocuments(ctx context.Context, in google.ListDocumentsInput) (*google.DocumentList, error)
	DeleteDocument(ctx context.Context, in google.DeleteDocumentInput) (*google.Deletion, error)
	ExportDocument(ctx context.Context, in google.ExportDocumentInput) (*google.ExportResult, error)

	ListFiles(ctx context.Context, in google.ListFilesInput) (*google.FileList, error)
	GetFile(ctx context.Context, in google.FileRef) (*google.File, error)
	CreateFile(ctx context.Context, in google.CreateFileInput) (*google.File, error)
	CreateFolder(ctx context.Context, in google.CreateFolderInput) (*google.File, error)
	UpdateFile(ctx context.Context, in google.UpdateFileInput) (*google.File, error)
	DeleteFile(ctx context.Context, in google.DeleteFileInput) (*google.Deletion, error)
	CopyFile(ctx context.Context, in google.CopyFileInput) (*google.File, error)
	MoveFile(ctx context.Context, in google.MoveFileInput) (*google.File, error)

	ListPermissions(ctx context.Context, in google.FileRef) (*google.PermissionList, error)
	CreatePermission(ctx context.Context, in google.CreatePermissionInput) (*google.Permission, error)
	DeletePermission(ctx context.Context, in google.PermissionRef) (*google.Deletion, error)

	ListRevisions(ctx context.Context, in google.FileRef) (*google.RevisionList, error)
	GetRevision(ctx context.Context, in google.RevisionRef) (*google.Revision, error)
	DeleteRevision(ctx context.Context, in google.RevisionRef) (*google.Deletion, error)

	ListComments(ctx context.Context, in google.ListCommentsInput) (*google.CommentList, error)
	CreateComment(ctx context.Context, in google.CreateCommentInput) (*google.Comment, error)
	DeleteComment(ctx context.Context, in google.CommentRef) (*google.Deletion, error)
	ListReplies(ctx context.Context, in google.CommentRef) (*google.ReplyList, error)
	CreateReply(ctx context.Context, in google.CreateReplyInput) (*google.Reply, error)
	DeleteReply(ctx context.Context, in google.ReplyRef) (*google.Deletion, error)
}

var _ Provider = (*google.Client)(nil)
