package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Collaborator failure taxonomy. Handlers map these onto HTTP statuses;
// none of them corrupt the live session: the triggering user turn stays
// recorded and no assistant turn is appended.
var (
	ErrCredentialMissing = errors.New("api credential missing")
	ErrUnauthorized      = errors.New("api credential rejected")
	ErrRateLimited       = errors.New("rate limited by provider")
	ErrTimeout           = errors.New("provider request timed out")
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Classify folds a raw client error into the taxonomy. Unknown errors
// pass through unchanged.
func Classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return err
}
