package catalog

// Operation names. Bindings to the capability provider are keyed by these.
const (
	OpCreateDocument = "docs_create_document"
	OpGetDocument    = "docs_get_document"
	OpAppendText     = "docs_append_text"
	OpReplaceText    = "docs_replace_text"
	OpListDocuments  = "docs_list_documents"
	OpDeleteDocument = "docs_delete_document"
	OpExportDocument = "docs_export_document"

	OpListFiles    = "drive_list_files"
	OpGetFile      = "drive_get_file"
	OpCreateFile   = "drive_create_file"
	OpCreateFolder = "drive_create_folder"
	OpUpdateFile   = "drive_update_file"
	OpDeleteFile   = "drive_delete_file"
	OpCopyFile     = "drive_copy_file"
	OpMoveFile     = "drive_move_file"

	OpListPermissions  = "drive_list_permissions"
	OpCreatePermission = "drive_create_permission"
	OpDeletePermission = "drive_delete_permission"

	OpListRevisions  = "drive_list_revisions"
	OpGetRevision    = "drive_get_revision"
	OpDeleteRevision = "drive_delete_revision"

	OpListComments  = "drive_list_comments"
	OpCreateComment = "drive_create_comment"
	OpDeleteComment = "drive_delete_comment"
	OpListReplies   = "drive_list_replies"
	OpCreateReply   = "drive_create_reply"
	OpDeleteReply   = "drive_delete_reply"
)

// ExportFormats are the values accepted by docs_export_document.
var ExportFormats = []string{"txt", "html", "pdf", "docx", "odt", "rtf", "epub", "md"}

// Default returns the full Google Docs / Drive catalog.
func Default() *Catalog {
	descs := make([]Descriptor, 0, 32)
	descs = append(descs, documentOperations()...)
	descs = append(descs, fileOperations()...)
	descs = append(descs, permissionOperations()...)
	descs = append(descs, revisionOperations()...)
	descs = append(descs, commentOperations()...)
	return New(descs...)
}

func documentID() Property {
	return String("documentId", "ID of the Google Doc (the segment after /d/ in its URL)").Req()
}

func fileID() Property {
	return String("fileId", "ID of the Drive file").Req()
}

func pageToken() Property {
	return String("pageToken", "Token returned by a previous call to fetch the next page")
}

func documentOperations() []Descriptor {
	return []Descriptor{
		{
			Name:        OpCreateDocument,
			Description: "Create a new Google Doc, optionally with initial text content",
			InputSchema: Object(
				String("title", "Title of the new document").Req(),
				String("content", "Initial plain text content"),
			),
		},
		{
			Name:        OpGetDocument,
			Description: "Read a Google Doc and return its title and plain text content",
			InputSchema: Object(documentID()),
		},
		{
			Name:        OpAppendText,
			Description: "Append text to the end of a Google Doc",
			InputSchema: Object(
				documentID(),
				String("text", "Text to append").Req(),
			),
		},
		{
			Name:        OpReplaceText,
			Description: "Replace every occurrence of a string in a Google Doc",
			InputSchema: Object(
				documentID(),
				String("searchText", "Text to search for").Req(),
				String("replaceText", "Replacement text").Req(),
				Boolean("matchCase", "Match case when searching").WithDefault(false),
			),
		},
		{
			Name:        OpListDocuments,
			Description: "List Google Docs visible to the configured account, most recently modified first",
			InputSchema: Object(
				String("query", "Only return documents whose name contains this text"),
				Integer("pageSize", "Maximum number of documents to return (1-100)").WithDefault(10),
				pageToken(),
			),
		},
		{
			Name:        OpDeleteDocument,
			Description: "Move a Google Doc to the trash, or delete it permanently",
			InputSchema: Object(
				documentID(),
				Boolean("permanent", "Delete permanently instead of moving to trash").WithDefault(false),
			),
		},
		{
			Name:        OpExportDocument,
			Description: "Export a Google Doc to another format; binary formats are returned base64 encoded",
			InputSchema: Object(
				documentID(),
				String("format", "Export format").OneOf(ExportFormats...).WithDefault("txt"),
			),
		},
	}
}

func fileOperations() []Descriptor {
	return []Descriptor{
		{
			Name:        OpListFiles,
			Description: "List or search files in Google Drive",
			InputSchema: Object(
				String("query", "Raw Drive query (q parameter), e.g. \"name contains 'report'\""),
				String("mimeType", "Only return files of this MIME type"),
				String("folderId", "Only return files inside this folder"),
				Integer("pageSize", "Maximum number of files to return (1-1000)").WithDefault(20),
				pageToken(),
				String("orderBy", "Sort order").WithDefault("modifiedTime desc"),
			),
		},
		{
			Name:        OpGetFile,
			Description: "Get metadata for a Drive file",
			InputSchema: Object(fileID()),
		},
		{
			Name:        OpCreateFile,
			Description: "Create a file in Google Drive, optionally uploading text content",
			InputSchema: Object(
				String("name", "File name").Req(),
				String("mimeType", "MIME type of the file").WithDefault("text/plain"),
				String("content", "Text content to upload"),
				String("parentId", "ID of the parent folder"),
				String("description", "File description"),
			),
		},
		{
			Name:        OpCreateFolder,
			Description: "Create a folder in Google Drive",
			InputSchema: Object(
				String("name", "Folder name").Req(),
				String("parentId", "ID of the parent folder"),
			),
		},
		{
			Name:        OpUpdateFile,
			Description: "Update a Drive file's metadata and/or replace its content",
			InputSchema: Object(
				fileID(),
				String("name", "New file name"),
				String("description", "New description"),
				String("content", "New text content"),
				String("mimeType", "MIME type of the new content"),
			),
		},
		{
			Name:        OpDeleteFile,
			Description: "Move a Drive file to the trash, or delete it permanently",
			InputSchema: Object(
				fileID(),
				Boolean("permanent", "Delete permanently instead of moving to trash").WithDefault(false),
			),
		},
		{
			Name:        OpCopyFile,
			Description: "Copy a Drive file",
			InputSchema: Object(
				fileID(),
				String("name", "Name of the copy"),
				String("parentId", "Folder to place the copy in"),
			),
		},
		{
			Name:        OpMoveFile,
			Description: "Move a Drive file to another folder",
			InputSchema: Object(
				fileID(),
				String("newParentId", "ID of the destination folder").Req(),
			),
		},
	}
}

func permissionOperations() []Descriptor {
	return []Descriptor{
		{
			Name:        OpListPermissions,
			Description: "List sharing permissions of a Drive file",
			InputSchema: Object(fileID()),
		},
		{
			Name:        OpCreatePermission,
			Description: "Share a Drive file with a user, group, domain or anyone",
			InputSchema: Object(
				fileID(),
				String("role", "Role granted").
					OneOf("reader", "commenter", "writer", "fileOrganizer", "organizer", "owner").
					WithDefault("reader"),
				String("type", "Grantee type").
					OneOf("user", "group", "domain", "anyone").
					WithDefault("user"),
				String("emailAddress", "Email address for user or group grantees"),
				String("domain", "Domain for domain grantees"),
				Boolean("sendNotificationEmail", "Notify user or group grantees by email").WithDefault(true),
				String("emailMessage", "Custom message included in the notification email"),
			),
		},
		{
			Name:        OpDeletePermission,
			Description: "Remove a sharing permission from a Drive file",
			InputSchema: Object(
				fileID(),
				String("permissionId", "ID of the permission").Req(),
			),
		},
	}
}

func revisionOperations() []Descriptor {
	revisionID := String("revisionId", "ID of the revision").Req()
	return []Descriptor{
		{
			Name:        OpListRevisions,
			Description: "List revisions of a Drive file",
			InputSchema: Object(fileID()),
		},
		{
			Name:        OpGetRevision,
			Description: "Get metadata for a single revision",
			InputSchema: Object(fileID(), revisionID),
		},
		{
			Name:        OpDeleteRevision,
			Description: "Delete a revision of a binary Drive file",
			InputSchema: Object(fileID(), revisionID),
		},
	}
}

func commentOperations() []Descriptor {
	commentID := String("commentId", "ID of the comment").Req()
	return []Descriptor{
		{
			Name:        OpListComments,
			Description: "List comments on a Drive file",
			InputSchema: Object(
				fileID(),
				Boolean("includeDeleted", "Include deleted comments").WithDefault(false),
				Integer("pageSize", "Maximum number of comments to return (1-100)").WithDefault(20),
				pageToken(),
			),
		},
		{
			Name:        OpCreateComment,
			Description: "Add a comment to a Drive file",
			InputSchema: Object(
				fileID(),
				String("content", "Comment text").Req(),
				String("quotedText", "Document text the comment refers to"),
			),
		},
		{
			Name:        OpDeleteComment,
			Description: "Delete a comment",
			InputSchema: Object(fileID(), commentID),
		},
		{
			Name:        OpListReplies,
			Description: "List replies to a comment",
			InputSchema: Object(fileID(), commentID),
		},
		{
			Name:        OpCreateReply,
			Description: "Reply to a comment, optionally resolving or reopening it",
			InputSchema: Object(
				fileID(),
				commentID,
				String("content", "Reply text").Req(),
				String("action", "Action applied to the parent comment").OneOf("resolve", "reopen"),
			),
		},
		{
			Name:        OpDeleteReply,
			Description: "Delete a reply",
			InputSchema: Object(
				fileID(),
				commentID,
				String("replyId", "ID of the reply").Req(),
			),
		},
	}
}
