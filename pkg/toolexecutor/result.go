package toolexecutor

import (
	"encoding/json"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallResult is a tool result flattened to text.
type CallResult struct {
	// Items holds one entry per content item. Nil when the result carried
	// no content list at all.
	Items   []string
	IsError bool
	Raw     *mcpsdk.CallToolResult
}

// NewCallResult flattens content items: text content becomes its text,
// anything else its JSON form.
func NewCallResult(res *mcpsdk.CallToolResult) *CallResult {
	out := &CallResult{Raw: res}
	if res == nil {
		return out
	}
	out.IsError = res.IsError

	if res.Content == nil && res.StructuredContent != nil {
		return out
	}

	out.Items = make([]string, 0, len(res.Content))
	for _, item := range res.Content {
		out.Items = append(out.Items, contentText(item))
	}
	return out
}

func contentText(c mcpsdk.Content) string {
	if text, ok := c.(*mcpsdk.TextContent); ok {
		return text.Text
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprint(c)
	}
	return string(data)
}

// String formats the result for the transcript. A content list renders as
// "[a, b]"; a result without one stringifies.
func (r *CallResult) String() string {
	if r == nil {
		return ""
	}
	if r.Items != nil {
		return "[" + strings.Join(r.Items, ", ") + "]"
	}
	if r.Raw == nil {
		return ""
	}
	if r.Raw.StructuredContent != nil {
		if data, err := json.Marshal(r.Raw.StructuredContent); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(r.Raw)
}
