package dispatch

import "encoding/json"

type CallRequest struct {
	Operation string
	Arguments map[string]any
}

// CallResult carries exactly one of Payload or Failure. Text is the payload
// rendered as two-space indented JSON, the encoding every transport emits.
type CallResult struct {
	Payload any
	Text    string
	Failure *Failure
}

func (r CallResult) OK() bool { return r.Failure == nil }

func success(payload any) CallResult {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return failure(KindProviderFailure, "encode result: "+err.Error())
	}
	return CallResult{Payload: payload, Text: string(raw)}
}

func failure(kind FailureKind, msg string) CallResult {
	return CallResult{Failure: &Failure{Kind: kind, Message: msg}}
}
