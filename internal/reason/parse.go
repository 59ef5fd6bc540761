package reason

import "strings"

// stripCodeFence removes a surrounding markdown code fence of the form
// ```json ... ``` (or a bare ``` fence) from a backend response.
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
		return strings.TrimSpace(response)
	}
	if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
		return strings.TrimSpace(response)
	}
	return response
}

// extractJSONObject returns the outermost {...} span in the response, which
// tolerates prose before or after the object.
func extractJSONObject(response string) (string, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return response[start : end+1], true
}

// clamp01 bounds a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
