package toolexecutor

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
)

// schemaRecorder keeps the raw inputSchema of every tool seen in a
// tools/list response. The SDK decodes schemas into maps, which loses the
// declaration order positional parameters depend on.
type schemaRecorder struct {
	mu      sync.RWMutex
	schemas map[string]json.RawMessage
}

func newSchemaRecorder() *schemaRecorder {
	return &schemaRecorder{schemas: make(map[string]json.RawMessage)}
}

func (r *schemaRecorder) observe(result json.RawMessage) {
	tools := gjson.GetBytes(result, "tools")
	if !tools.IsArray() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	tools.ForEach(func(_, tool gjson.Result) bool {
		name := tool.Get("name").String()
		schema := tool.Get("inputSchema")
		if name != "" && schema.Exists() {
			r.schemas[name] = json.RawMessage(schema.Raw)
		}
		return true
	})
}

func (r *schemaRecorder) schema(name string) (json.RawMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.schemas[name]
	return raw, ok
}

// recordingTransport wraps a transport so inbound responses pass through a
// schemaRecorder before the SDK decodes them.
type recordingTransport struct {
	inner    mcpsdk.Transport
	recorder *schemaRecorder
}

func (t *recordingTransport) Connect(ctx context.Context) (mcpsdk.Connection, error) {
	conn, err := t.inner.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingConn{Connection: conn, recorder: t.recorder}, nil
}

type recordingConn struct {
	mcpsdk.Connection
	recorder *schemaRecorder
}

func (c *recordingConn) Read(ctx context.Context) (jsonrpc.Message, error) {
	msg, err := c.Connection.Read(ctx)
	if err != nil {
		return msg, err
	}
	if resp, ok := msg.(*jsonrpc.Response); ok && resp.Error == nil && len(resp.Result) > 0 {
		c.recorder.observe(resp.Result)
	}
	return msg, nil
}
