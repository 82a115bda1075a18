package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// RefKind says how a channel reference must be looked up.
type RefKind string

// Reference kinds.
const (
	KindHandle RefKind = "handle"
	KindID     RefKind = "id"
	KindCustom RefKind = "custom"
	KindUser   RefKind = "user"
)

// ChannelRef is a parsed channel reference. Handles are stored without the
// leading "@".
type ChannelRef struct {
	ID   string
	Kind RefKind
}

var (
	channelIDRegex = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	handleRegex    = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_.·-]+$`)
	nameRegex      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Top-level paths on youtube.com that are never channels.
var reservedPaths = map[string]bool{
	"watch":    true,
	"results":  true,
	"playlist": true,
	"shorts":   true,
	"feed":     true,
	"embed":    true,
	"live":     true,
	"hashtag":  true,
	"premium":  true,
	"account":  true,
}

// ParseChannelURL extracts a channel reference from a YouTube channel URL,
// a bare "@handle" or a bare channel ID.
//
// Accepted shapes:
//
//	https://www.youtube.com/@handle
//	https://www.youtube.com/channel/UC...
//	https://www.youtube.com/c/name
//	https://www.youtube.com/user/name
//	https://www.youtube.com/name
//	@handle
//	UC... (24 characters)
func ParseChannelURL(input string) (ChannelRef, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return ChannelRef{}, fmt.Errorf("%w: empty input", ErrInvalidURLFormat)
	}

	if strings.HasPrefix(s, "@") {
		return handleRef(strings.TrimPrefix(s, "@"), input)
	}
	if channelIDRegex.MatchString(s) {
		return ChannelRef{ID: s, Kind: KindID}, nil
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ChannelRef{}, fmt.Errorf("%w: %q", ErrInvalidURLFormat, input)
	}
	if !isYouTubeHost(u.Hostname()) {
		return ChannelRef{}, fmt.Errorf("%w: %q is not a YouTube URL", ErrInvalidURLFormat, input)
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return ChannelRef{}, fmt.Errorf("%w: %q has no channel path", ErrInvalidURLFormat, input)
	}

	first := segments[0]
	if strings.HasPrefix(first, "@") {
		return handleRef(strings.TrimPrefix(first, "@"), input)
	}

	var kind RefKind
	switch first {
	case "channel":
		kind = KindID
	case "c":
		kind = KindCustom
	case "user":
		kind = KindUser
	default:
		if reservedPaths[strings.ToLower(first)] || !nameRegex.MatchString(first) {
			return ChannelRef{}, fmt.Errorf("%w: %q", ErrInvalidURLFormat, input)
		}
		return ChannelRef{ID: first, Kind: KindCustom}, nil
	}

	if len(segments) < 2 || !nameRegex.MatchString(segments[1]) {
		return ChannelRef{}, fmt.Errorf("%w: %q", ErrInvalidURLFormat, input)
	}
	return ChannelRef{ID: segments[1], Kind: kind}, nil
}

func handleRef(handle, input string) (ChannelRef, error) {
	if !handleRegex.MatchString(handle) {
		return ChannelRef{}, fmt.Errorf("%w: invalid handle in %q", ErrInvalidURLFormat, input)
	}
	return ChannelRef{ID: handle, Kind: KindHandle}, nil
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}
	return host == "youtube.com"
}
