package agent

import (
	"regexp"
	"strings"
)

// Weather phrasings the router recognizes. Detection is a best-effort
// heuristic over known phrasings, not a grammar.
var weatherPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bweather\b`),
	regexp.MustCompile(`(?i)\btemperature\b`),
	regexp.MustCompile(`(?i)\bforecast\b`),
	regexp.MustCompile(`(?i)\b(rain|raining|rainy|snow|snowing|sunny|cloudy|windy|humid|humidity)\b`),
	regexp.MustCompile(`(?i)\bhow\s+(hot|cold|warm)\b`),
	regexp.MustCompile(`(?i)\bis\s+it\s+(hot|cold|warm|raining|snowing|sunny)\b`),
	regexp.MustCompile(`(?i)\bdegrees\s+(celsius|fahrenheit|outside)\b`),
}

// Location phrases follow prepositions. Ordered; first match wins.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bin\s+([A-Za-z][A-Za-z .'-]*[A-Za-z.])`),
	regexp.MustCompile(`(?i)\bfor\s+([A-Za-z][A-Za-z .'-]*[A-Za-z.])`),
	regexp.MustCompile(`(?i)\bat\s+([A-Za-z][A-Za-z .'-]*[A-Za-z.])`),
}

// Trailing words that are part of the question, not the place name.
var locationStopWords = map[string]bool{
	"today":     true,
	"tomorrow":  true,
	"tonight":   true,
	"now":       true,
	"right":     true,
	"currently": true,
	"this":      true,
	"next":      true,
	"the":       true,
	"please":    true,
}

// DetectWeatherIntent reports whether the query asks about weather.
// Pure and deterministic; absence of a match is false, never an error.
func DetectWeatherIntent(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, pattern := range weatherPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractLocation finds a place name following "in"/"for"/"at". Returns
// the first match title-cased, or "" when no location phrase is found.
// Missing location is not an error; the weather adapter applies the
// configured default.
func ExtractLocation(text string) string {
	text = strings.TrimRight(strings.TrimSpace(text), "?!. ")

	for _, pattern := range locationPatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}

		location := cleanLocation(match[1])
		if location != "" {
			return location
		}
	}
	return ""
}

// cleanLocation trims question words off the captured phrase and
// normalizes case.
func cleanLocation(raw string) string {
	words := strings.Fields(raw)

	// Drop leading "the" ("in the Bay Area" keeps "Bay Area")
	for len(words) > 0 && strings.EqualFold(words[0], "the") {
		words = words[1:]
	}

	// Cut at the first stop word
	for i, word := range words {
		if locationStopWords[strings.ToLower(word)] {
			words = words[:i]
			break
		}
	}

	if len(words) == 0 {
		return ""
	}

	// Cap at three words; city names rarely run longer
	if len(words) > 3 {
		words = words[:3]
	}

	for i, word := range words {
		words[i] = titleCase(word)
	}
	return strings.Join(words, " ")
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
