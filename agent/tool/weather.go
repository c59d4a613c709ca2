package tool

import "strings"

// executeWeather is a canned tool kept for parity with the chat surface; it
// answers only when the user explicitly asks for weather.
func executeWeather(args map[string]any) string {
	query := strings.ToLower(stringArg(args, "query"))
	if strings.Contains(query, "san francisco") {
		return "It's 60 degrees and foggy."
	}
	return "It's 90 degrees and sunny."
}
