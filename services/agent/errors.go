package agent

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotInitialized     = errors.New("AI agent not initialized or unavailable")
	ErrUnknownTool        = errors.New("unknown tool")
	ErrInvalidArguments   = errors.New("invalid arguments")
	ErrToolExecution      = errors.New("tool execution failed")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrModelProtocol      = errors.New("model protocol error")
	ErrRoundLimitExceeded = errors.New("round limit exceeded")
)

var decommissionMarkers = []string{
	"model_decommissioned",
	"decommissioned",
	"model_not_found",
	"not_found_error",
}

// IsModelDecommissioned reports whether err says the configured model no
// longer exists upstream.
func IsModelDecommissioned(err error) bool {
	if err == nil || !errors.Is(err, ErrModelUnavailable) {
		return false
	}
	text := strings.ToLower(err.Error())
	for _, marker := range decommissionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
