package mcptool

import (
	"errors"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

const internalErrorMessage = "internal error"

type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func newErrorBody(err error) errorBody {
	kind := usecase.KindOf(err)
	msg := err.Error()
	if kind == usecase.KindInternal {
		msg = internalErrorMessage
	}
	return errorBody{Kind: string(kind), Message: msg}
}

// successResult wraps data in {"data": ...}. A nil slice is sent as [] so an
// empty result never reads as missing.
func successResult(data any) *mcp.CallToolResult {
	raw, err := sonic.Marshal(envelope{Data: nonNil(data)})
	if err != nil {
		return errorResult(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	body := newErrorBody(err)
	raw, marshalErr := sonic.Marshal(envelope{Error: &body})
	if marshalErr != nil {
		raw = []byte(`{"error":{"kind":"Internal","message":"internal error"}}`)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func nonNil(data any) any {
	if data == nil {
		return []struct{}{}
	}
	return data
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fe.Field() + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
	}
	return msg
}
