package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrGeneration wraps every failure returned by Generate.
var ErrGeneration = errors.New("génération de texte impossible")

var (
	ErrRateLimit     = errors.New("limite de requêtes atteinte")
	ErrQuotaExceeded = errors.New("quota épuisé")
	ErrTimeout       = errors.New("délai dépassé")
	ErrAuthFailed    = errors.New("authentification refusée")
	ErrEmptyResponse = errors.New("réponse vide")
)

// classifyError maps go-openai errors onto the package sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			msg := strings.ToLower(apiErr.Message)
			if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, ErrRateLimit)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrTimeout)
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("HTTP 429: %w", ErrRateLimit)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("requête expirée : %w", ErrTimeout)
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrRateLimit) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrEmptyResponse) {
		return true
	}
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return status >= 500 && status <= 599
}
