package server

import (
	"errors"
	"testing"
)

func TestResponseRendering(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{name: "ok", resp: okResponse(), want: "OK"},
		{name: "string", resp: stringResponse("bar"), want: `"bar"`},
		{name: "nil", resp: nilResponse(), want: "(nil)"},
		{name: "integer", resp: intResponse(3), want: "(integer) 3"},
		{name: "negative integer", resp: intResponse(-2), want: "(integer) -2"},
		{name: "bool true", resp: boolResponse(true), want: "1"},
		{name: "bool false", resp: boolResponse(false), want: "0"},
		{name: "empty list", resp: listResponse(nil), want: "(empty list)"},
		{name: "list", resp: listResponse([]string{"a", "b"}), want: "1) \"a\"\n2) \"b\""},
		{name: "error", resp: errorResponse(errors.New("boom")), want: "ERROR: boom"},
		{name: "unknown kind", resp: Response{Kind: ResponseKind(99)}, want: "ERROR: unknown response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.String(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
