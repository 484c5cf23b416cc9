package types

// CallResult is the non-throwing envelope returned by the safe entry point.
// On success Data holds the extraction result; on failure Error holds the
// message and ErrorType the taxonomy wire name (schema_generation,
// configuration, baml_compilation, llm_provider, timeout, response_parsing
// or unknown).
type CallResult struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorType string         `json:"error_type,omitempty"`
}

// ResultFromError maps any error into a failed CallResult.
func ResultFromError(err error) CallResult {
	e := AsError(err)
	return CallResult{
		Success:   false,
		Error:     e.Message,
		ErrorType: e.Code.WireName(),
	}
}

// ResultFromData wraps a successful extraction.
func ResultFromData(data map[string]any) CallResult {
	return CallResult{Success: true, Data: data}
}
