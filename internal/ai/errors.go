package ai

import (
	"errors"
	"fmt"

	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
)

var ErrUnavailable = fmt.Errorf("embed provider %w", appErr.ErrUnavailable)

// ProviderError is returned for every failure of an embedding call: network,
// authentication, rate limiting or a malformed response.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embed provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

func wrapProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Message: err.Error(), Err: err}
}

// NewProviderError builds a ProviderError for callers outside this package
// that detect a bad provider response.
func NewProviderError(provider string, err error) error {
	return wrapProviderError(provider, err)
}
