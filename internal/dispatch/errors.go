package dispatch

// FailureKind classifies why a call did not succeed.
type FailureKind string

const (
	KindUnknownOperation      FailureKind = "unknown_operation"
	KindMalformedEnvelope     FailureKind = "malformed_envelope"
	KindInvalidArguments      FailureKind = "invalid_arguments"
	KindProviderFailure       FailureKind = "provider_failure"
	KindInitializationFailure FailureKind = "initialization_failure"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Failure is the error half of a CallResult. Message is always human
// readable and is surfaced to the caller verbatim.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (f *Failure) Error() string { return f.Message }

type ErrorInfo struct {
	Code    string
	RPCCode int
}

var failureMap = map[FailureKind]ErrorInfo{
	KindUnknownOperation:      {Code: "UNKNOWN_TOOL", RPCCode: CodeMethodNotFound},
	KindMalformedEnvelope:     {Code: "INVALID_REQUEST", RPCCode: CodeInvalidRequest},
	KindInvalidArguments:      {Code: "INVALID_ARGUMENTS", RPCCode: CodeInvalidParams},
	KindProviderFailure:       {Code: "PROVIDER_ERROR", RPCCode: CodeInternalError},
	KindInitializationFailure: {Code: "INITIALIZATION_FAILED", RPCCode: CodeInternalError},
}

// MapFailure returns the transport-level codes for a failure kind. It is the
// single mapping table shared by every transport.
func MapFailure(kind FailureKind) ErrorInfo {
	if info, ok := failureMap[kind]; ok {
		return info
	}
	return ErrorInfo{Code: "INTERNAL", RPCCode: CodeInternalError}
}
