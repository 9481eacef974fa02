package ampevents

import (
	"fmt"
	"net/http"
)

type httpStatusError struct {
	Message string
	Code    int
}

func (e httpStatusError) Error() string {
	return e.Message
}

func checkForHTTPError(statusCode int, url string) error {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return httpStatusError{
			Message: fmt.Sprintf("Invalid API key when accessing URL: %s. Verify that your API key is correct.", url),
			Code:    statusCode}
	}

	if statusCode == http.StatusNotFound {
		return httpStatusError{
			Message: fmt.Sprintf("Resource not found when accessing URL: %s. Verify that this resource exists.", url),
			Code:    statusCode}
	}

	if statusCode/100 != 2 {
		return httpStatusError{
			Message: fmt.Sprintf("Unexpected response code: %d when accessing URL: %s", statusCode, url),
			Code:    statusCode}
	}
	return nil
}

// httpErrorMessage describes an upload failure. The recoverable flag reflects the sender's
// configured classification, which may differ from the default predicate.
func httpErrorMessage(statusCode int, context string, recoverable bool, recoverableMessage string) string {
	statusDesc := ""
	if statusCode == 401 || statusCode == 403 {
		statusDesc = " (invalid API key)"
	}
	resultMessage := recoverableMessage
	if !recoverable {
		resultMessage = "suspending automatic uploads"
	}
	return fmt.Sprintf("Received HTTP error %d%s for %s - %s",
		statusCode, statusDesc, context, resultMessage)
}

// IsHTTPErrorRecoverable tests whether an HTTP error status represents a condition that might
// resolve on its own if we retry, or at least should not make us suspend automatic uploads. It is
// the default classification predicate used by NewServerSideEventSender; pass a different predicate
// to override the retryable/unrecoverable split.
func IsHTTPErrorRecoverable(statusCode int) bool {
	return isHTTPErrorRecoverable(statusCode)
}

func isHTTPErrorRecoverable(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		switch statusCode {
		case 400: // bad request
			return true
		case 408: // request timeout
			return true
		case 429: // too many requests
			return true
		default:
			return false // all other 4xx errors are unrecoverable
		}
	}
	return true
}
