package comms

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
	"github.com/joseb33w/google-docs-mcp-server/internal/google"
	"github.com/joseb33w/google-docs-mcp-server/internal/mcp"
)

type stubProvider struct {
	dispatch.Provider
}

func (stubProvider) GetDocument(_ context.Context, in google.DocumentRef) (*google.Document, error) {
	if in.DocumentID == "missing" {
		return nil, errors.New("Not found")
	}
	return &google.Document{DocumentID: in.DocumentID, Title: "Notes"}, nil
}

func startNATS(t *testing.T) *natsserver.Server {
	t.Helper()
	ns, err := natsserver.NewServer(&natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("failed to create NATS server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("NATS server failed to start")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func TestRequestReply(t *testing.T) {
	ns := startNATS(t)

	nc, err := Connect(ns.ClientURL(), "docs-mcp-test", 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer nc.Close()

	d, err := dispatch.New(catalog.Default(), dispatch.ReadyCell(stubProvider{}))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	h := mcp.NewHandler(d, mcp.ServerInfo{Name: "google-docs-mcp", Version: "test"}, mcp.ToolErrorsAsEnvelope, nil)

	srv := NewServer(nc, h, "", "workers", nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Shutdown(context.Background())

	client, err := nats.Connect(ns.ClientURL(), nats.Timeout(5*time.Second))
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer client.Close()

	request := func(body string) mcp.Response {
		t.Helper()
		msg, err := client.Request(DefaultSubject, []byte(body), 5*time.Second)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		var resp mcp.Response
		if err := json.Unmarshal(msg.Data, &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return resp
	}

	ok := request(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"docs_get_document","arguments":{"documentId":"d1"}}}`)
	if ok.Error != nil || string(ok.ID) != "1" {
		t.Fatalf("unexpected response %+v", ok)
	}

	failed := request(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"docs_get_document","arguments":{"documentId":"missing"}}}`)
	if failed.Error == nil || failed.Error.Message != "Not found" || failed.Error.Code != dispatch.CodeInternalError {
		t.Fatalf("unexpected response %+v", failed)
	}

	bad := request(`{"jsonrpc":"1.0","id":3,"method":"tools/list"}`)
	if bad.Error == nil || bad.Error.Code != dispatch.CodeInvalidRequest {
		t.Fatalf("unexpected response %+v", bad)
	}
}
