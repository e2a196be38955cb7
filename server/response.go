package server

import (
	"fmt"
	"strings"
)

/*
ResponseKind represents the category of a command result.

The kind determines how the result should be interpreted by the
client and how it is serialized on the wire.
*/
type ResponseKind int

const (
	// Operation succeeded with no additional value.
	ResponseOK ResponseKind = iota

	// Operation succeeded and returned a string.
	ResponseString

	// Operation succeeded but no value exists (e.g. missing key).
	ResponseNil

	// Operation succeeded and returned a signed integer.
	ResponseInt

	// Operation succeeded and returned a truth value.
	ResponseBool

	// Operation succeeded and returned a sequence of strings.
	ResponseList

	// Operation failed; Str carries the message.
	ResponseError
)

/*
Response represents the result of executing a command.
*/
type Response struct {
	Kind ResponseKind
	Str  string
	Int  int64
	Bool bool
	List []string
}

func okResponse() Response             { return Response{Kind: ResponseOK} }
func nilResponse() Response            { return Response{Kind: ResponseNil} }
func stringResponse(s string) Response { return Response{Kind: ResponseString, Str: s} }
func intResponse(n int64) Response     { return Response{Kind: ResponseInt, Int: n} }
func boolResponse(b bool) Response     { return Response{Kind: ResponseBool, Bool: b} }
func listResponse(l []string) Response { return Response{Kind: ResponseList, List: l} }

func errorResponse(err error) Response {
	return Response{Kind: ResponseError, Str: err.Error()}
}

/*
String serializes the response into the wire format.

This is the only place where presentation decisions (quoting, "(nil)",
1-indexed list lines) are made.
*/
func (r Response) String() string {
	switch r.Kind {

	case ResponseOK:
		return "OK"

	case ResponseString:
		return `"` + r.Str + `"`

	case ResponseNil:
		return "(nil)"

	case ResponseInt:
		return fmt.Sprintf("(integer) %d", r.Int)

	case ResponseBool:
		if r.Bool {
			return "1"
		}
		return "0"

	case ResponseList:
		if len(r.List) == 0 {
			return "(empty list)"
		}
		var b strings.Builder
		for i, item := range r.List {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%d) \"%s\"", i+1, item)
		}
		return b.String()

	case ResponseError:
		return "ERROR: " + r.Str

	default:
		// should never happen.
		return "ERROR: unknown response"
	}
}
