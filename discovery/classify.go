// classify.go - Turns generation failures into short messages a user can act on

package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// User-facing warning texts. The display form adds WarningMarker.
const (
	msgEmptyResponse   = "Received an empty response. Please try again."
	msgUnableGenerate  = "Unable to generate answer. "
	msgUnreachable     = "Unable to reach the knowledge base service. Please ensure the service is running and accessible."
	msgUnsupportedChat = "The configured workspace model is not supported for chat completions. Please update the workspace model in the knowledge base."
	msgUpstreamDefault = "Received an error response from the knowledge base service."
	msgUnexpected      = "An unexpected error occurred while generating the answer."
)

func unmappedMessage(category string) string {
	return fmt.Sprintf("No workspace mapping found for category %q. Please update the category mappings in Settings.", category)
}

// unreachable is implemented by transport errors of the chat client.
type unreachable interface {
	Unreachable() bool
}

// upstreamError is implemented by non-2xx responses of the chat client.
type upstreamError interface {
	HTTPStatusCode() int
	UpstreamMessage() string
}

// ErrorClass names the category a generation failure falls into.
type ErrorClass string

const (
	ClassUnmapped    ErrorClass = "unmapped_category"
	ClassEmpty       ErrorClass = "empty_response"
	ClassNetwork     ErrorClass = "network_unreachable"
	ClassUpstream    ErrorClass = "upstream_error"
	ClassUnsupported ErrorClass = "unsupported_model"
	ClassUnexpected  ErrorClass = "unexpected"
)

// Classify maps a chat failure to its class and the warning text shown for it.
func Classify(err error) (ErrorClass, string) {
	var (
		unr    unreachable
		up     upstreamError
		netErr net.Error
	)
	switch {
	case err == nil:
		return ClassUnexpected, msgUnableGenerate + msgUnexpected
	case errors.As(err, &unr) && unr.Unreachable(),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return ClassNetwork, msgUnableGenerate + msgUnreachable
	case errors.As(err, &up):
		msg := strings.TrimSpace(up.UpstreamMessage())
		if strings.Contains(strings.ToLower(msg), "not valid for chat") {
			return ClassUnsupported, msgUnableGenerate + msgUnsupportedChat
		}
		if msg == "" {
			msg = msgUpstreamDefault
		}
		return ClassUpstream, msgUnableGenerate + msg
	default:
		return ClassUnexpected, msgUnableGenerate + msgUnexpected
	}
}
