package google

// Inputs. JSON field names match the parameter names advertised in the
// operation catalog so argument maps decode straight into them.

type DocumentRef struct {
	DocumentID string `json:"documentId"`
}

type CreateDocumentInput struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

type AppendTextInput struct {
	DocumentID string `json:"documentId"`
	Text       string `json:"text"`
}

type ReplaceTextInput struct {
	DocumentID  string `json:"documentId"`
	SearchText  string `json:"searchText"`
	ReplaceText string `json:"replaceText"`
	MatchCase   bool   `json:"matchCase"`
}

type ListDocumentsInput struct {
	Query     string `json:"query,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type DeleteDocumentInput struct {
	DocumentID string `json:"documentId"`
	Permanent  bool   `json:"permanent"`
}

type ExportDocumentInput struct {
	DocumentID string `json:"documentId"`
	Format     string `json:"format"`
}

type FileRef struct {
	FileID string `json:"fileId"`
}

type ListFilesInput struct {
	Query     string `json:"query,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	FolderID  string `json:"folderId,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
	OrderBy   string `json:"orderBy,omitempty"`
}

type CreateFileInput struct {
	Name        string `json:"name"`
	MimeType    string `json:"mimeType,omitempty"`
	Content     string `json:"content,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	Description string `json:"description,omitempty"`
}

type CreateFolderInput struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// UpdateFileInput uses pointers so an explicit empty string can clear a
// field while an absent one leaves it untouched.
type UpdateFileInput struct {
	FileID      string  `json:"fileId"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
	MimeType    string  `json:"mimeType,omitempty"`
}

type DeleteFileInput struct {
	FileID    string `json:"fileId"`
	Permanent bool   `json:"permanent"`
}

type CopyFileInput struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

type MoveFileInput struct {
	FileID      string `json:"fileId"`
	NewParentID string `json:"newParentId"`
}

type CreatePermissionInput struct {
	FileID                string `json:"fileId"`
	Role                  string `json:"role"`
	Type                  string `json:"type"`
	EmailAddress          string `json:"emailAddress,omitempty"`
	Domain                string `json:"domain,omitempty"`
	SendNotificationEmail bool   `json:"sendNotificationEmail"`
	EmailMessage          string `json:"emailMessage,omitempty"`
}

type PermissionRef struct {
	FileID       string `json:"fileId"`
	PermissionID string `json:"permissionId"`
}

type RevisionRef struct {
	FileID     string `json:"fileId"`
	RevisionID string `json:"revisionId"`
}

type ListCommentsInput struct {
	FileID         string `json:"fileId"`
	IncludeDeleted bool   `json:"includeDeleted"`
	PageSize       int    `json:"pageSize,omitempty"`
	PageToken      string `json:"pageToken,omitempty"`
}

type CreateCommentInput struct {
	FileID     string `json:"fileId"`
	Content    string `json:"content"`
	QuotedText string `json:"quotedText,omitempty"`
}

type CommentRef struct {
	FileID    string `json:"fileId"`
	CommentID string `json:"commentId"`
}

type CreateReplyInput struct {
	FileID    string `json:"fileId"`
	CommentID string `json:"commentId"`
	Content   string `json:"content"`
	Action    string `json:"action,omitempty"`
}

type ReplyRef struct {
	FileID    string `json:"fileId"`
	CommentID string `json:"commentId"`
	ReplyID   string `json:"replyId"`
}

// Results.

type Document struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	RevisionID string `json:"revisionId,omitempty"`
	Content    string `json:"content,omitempty"`
}

type AppendResult struct {
	DocumentID string `json:"documentId"`
	Appended   int    `json:"appendedCharacters"`
}

type ReplaceResult struct {
	DocumentID         string `json:"documentId"`
	OccurrencesChanged int    `json:"occurrencesChanged"`
}

type DocumentList struct {
	Documents     []File `json:"documents"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

type ExportResult struct {
	DocumentID string `json:"documentId"`
	Format     string `json:"format"`
	MimeType   string `json:"mimeType"`
	Encoding   string `json:"encoding"`
	Content    string `json:"content"`
}

type User struct {
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

type File struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType,omitempty"`
	Description  string   `json:"description,omitempty"`
	Parents      []string `json:"parents,omitempty"`
	WebViewLink  string   `json:"webViewLink,omitempty"`
	CreatedTime  string   `json:"createdTime,omitempty"`
	ModifiedTime string   `json:"modifiedTime,omitempty"`
	Size         string   `json:"size,omitempty"`
	Trashed      bool     `json:"trashed,omitempty"`
	Owners       []User   `json:"owners,omitempty"`
}

type FileList struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

type Deletion struct {
	ID        string `json:"id"`
	Permanent bool   `json:"permanent"`
	Deleted   bool   `json:"deleted"`
}

type Permission struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Role         string `json:"role"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Domain       string `json:"domain,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
}

type PermissionList struct {
	Permissions []Permission `json:"permissions"`
}

type Revision struct {
	ID                string `json:"id"`
	MimeType          string `json:"mimeType,omitempty"`
	ModifiedTime      string `json:"modifiedTime,omitempty"`
	KeepForever       bool   `json:"keepForever,omitempty"`
	Size              string `json:"size,omitempty"`
	OriginalFilename  string `json:"originalFilename,omitempty"`
	LastModifyingUser *User  `json:"lastModifyingUser,omitempty"`
}

type RevisionList struct {
	Revisions []Revision `json:"revisions"`
}

type QuotedContent struct {
	MimeType string `json:"mimeType,omitempty"`
	Value    string `json:"value,omitempty"`
}

type Reply struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	Action       string `json:"action,omitempty"`
	Author       *User  `json:"author,omitempty"`
	CreatedTime  string `json:"createdTime,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Deleted      bool   `json:"deleted,omitempty"`
}

type ReplyList struct {
	Replies []Reply `json:"replies"`
}

type Comment struct {
	ID                string         `json:"id"`
	Content           string         `json:"content"`
	Author            *User          `json:"author,omitempty"`
	CreatedTime       string         `json:"createdTime,omitempty"`
	ModifiedTime      string         `json:"modifiedTime,omitempty"`
	Resolved          bool           `json:"resolved,omitempty"`
	Deleted           bool           `json:"deleted,omitempty"`
	QuotedFileContent *QuotedContent `json:"quotedFileContent,omitempty"`
	Replies           []Reply        `json:"replies,omitempty"`
}

type CommentList struct {
	Comments      []Comment `json:"comments"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
}
