package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isoDurationRegex matches the subset of ISO 8601 durations the Data API
// emits for videos: days, hours, minutes and seconds.
var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration converts an ISO 8601 duration such as "PT1H2M3S" to whole
// seconds.
func ParseDuration(s string) (int, error) {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil || len(s) < 3 || strings.HasSuffix(s, "T") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	unit := [4]int{24 * 3600, 3600, 60, 1}
	total := 0
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += n * unit[i]
	}
	return total, nil
}
