package config

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// keyAssignRe matches: YOUTUBE_API_KEY = "..." with optional export and quotes.
var keyAssignRe = regexp.MustCompile(`^(?:export\s+)?YOUTUBE_API_KEY\s*[=:]\s*["']?([^"'\s]+)["']?`)

// ReadAPIKeyFile returns the API key stored in path. An absent file yields an
// empty key and no error.
func ReadAPIKeyFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return parseKeyFile(string(content)), nil
}

// parseKeyFile accepts either a YOUTUBE_API_KEY assignment or a file whose
// first non-comment line is the bare key.
func parseKeyFile(content string) string {
	var bare string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if match := keyAssignRe.FindStringSubmatch(line); len(match) > 1 {
			return match[1]
		}
		if bare == "" && !strings.ContainsAny(line, " =:\t") {
			bare = line
		}
	}
	return bare
}
