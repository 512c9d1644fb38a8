package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
)

// invoker decodes an argument map into the operation's input type. The
// returned call runs the bound provider method on the decoded input, so a
// decode failure never needs a provider.
type invoker func(args map[string]any) (call, error)

type call func(ctx context.Context, p Provider) (any, error)

func bind[In, Out any](method func(Provider, context.Context, In) (Out, error)) invoker {
	return func(args map[string]any) (call, error) {
		var in In
		if err := decodeArguments(args, &in); err != nil {
			return nil, err
		}
		return func(ctx context.Context, p Provider) (any, error) {
			return method(p, ctx, in)
		}, nil
	}
}

// decodeArguments round-trips through JSON so the input struct tags are the
// single source of truth for parameter names.
func decodeArguments(args map[string]any, dst any) error {
	if len(args) == 0 {
		return nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return fmt.Errorf("invalid value for %s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

var bindings = map[string]invoker{
	catalog.OpCreateDocument: bind(Provider.CreateDocument),
	catalog.OpGetDocument:    bind(Provider.GetDocument),
	catalog.OpAppendText:     bind(Provider.AppendText),
	catalog.OpReplaceText:    bind(Provider.ReplaceText),
	catalog.OpListDocuments:  bind(Provider.ListDocuments),
	catalog.OpDeleteDocument: bind(Provider.DeleteDocument),
	catalog.OpExportDocument: bind(Provider.ExportDocument),

	catalog.OpListFiles:    bind(Provider.ListFiles),
	catalog.OpGetFile:      bind(Provider.GetFile),
	catalog.OpCreateFile:   bind(Provider.CreateFile),
	catalog.OpCreateFolder: bind(Provider.CreateFolder),
	catalog.OpUpdateFile:   bind(Provider.UpdateFile),
	catalog.OpDeleteFile:   bind(Provider.DeleteFile),
	catalog.OpCopyFile:     bind(Provider.CopyFile),
	catalog.OpMoveFile:     bind(Provider.MoveFile),

	catalog.OpListPermissions:  bind(Provider.ListPermissions),
	catalog.OpCreatePermission: bind(Provider.CreatePermission),
	catalog.OpDeletePermission: bind(Provider.DeletePermission),

	catalog.OpListRevisions:  bind(Provider.ListRevisions),
	catalog.OpGetRevision:    bind(Provider.GetRevision),
	catalog.OpDeleteRevision: bind(Provider.DeleteRevision),

	catalog.OpListComments:  bind(Provider.ListComments),
	catalog.OpCreateComment: bind(Provider.CreateComment),
	catalog.OpDeleteComment: bind(Provider.DeleteComment),
	catalog.OpListReplies:   bind(Provider.ListReplies),
	catalog.OpCreateReply:   bind(Provider.CreateReply),
	catalog.OpDeleteReply:   bind(Provider.DeleteReply),
}

// Bound reports whether an operation name has a provider binding.
func Bound(name string) bool {
	_, ok := bindings[name]
	return ok
}
