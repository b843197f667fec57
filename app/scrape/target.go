package scrape

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidTarget is returned when a user-supplied reference cannot be
// resolved to an advertiser page id or a searchable page name.
var ErrInvalidTarget = errors.New("invalid target: enter a Facebook or Instagram URL, page name, or page id")

// Target is a resolved analysis target: either a known archive page id or
// a page name to look up in the archive search.
type Target struct {
	PageID     string
	SearchName string
	Raw        string
}

var (
	viewAllPageIDRe = regexp.MustCompile(`view_all_page_id=(\d+)`)
	profileIDRe     = regexp.MustCompile(`[?&]id=(\d+)`)
	digitsRe        = regexp.MustCompile(`^\d+$`)
	facebookNameRe  = regexp.MustCompile(`facebook\.com/([^/?#]+)`)
	instagramNameRe = regexp.MustCompile(`instagram\.com/([^/?]+)`)
)

// reservedFacebookPaths are path segments that never name an advertiser page.
var reservedFacebookPaths = map[string]bool{
	"ads":         true,
	"profile.php": true,
	"watch":       true,
	"reel":        true,
}

// ResolveTarget parses the reference the user typed into the form: a full
// archive URL carrying view_all_page_id, a profile.php?id= URL, a bare
// numeric id, a facebook.com/<name> or instagram.com/<name> URL, or a bare
// page name. A single-ad library URL cannot be resolved to its page.
func ResolveTarget(ref string) (Target, error) {
	ref = strings.TrimSpace(ref)
	target := Target{Raw: ref}

	switch {
	case viewAllPageIDRe.MatchString(ref):
		target.PageID = viewAllPageIDRe.FindStringSubmatch(ref)[1]

	case strings.Contains(ref, "profile.php"):
		m := profileIDRe.FindStringSubmatch(ref)
		if m == nil {
			return Target{}, ErrInvalidTarget
		}
		target.PageID = m[1]

	case strings.Contains(ref, "/ads/library/") && strings.Contains(ref, "?id="):
		// A single-ad URL; the owning page is not recoverable from it.
		return Target{}, ErrInvalidTarget

	case digitsRe.MatchString(ref):
		target.PageID = ref

	case strings.Contains(ref, "facebook.com/"):
		m := facebookNameRe.FindStringSubmatch(ref)
		if m == nil || reservedFacebookPaths[m[1]] {
			return Target{}, ErrInvalidTarget
		}
		target.SearchName = m[1]

	case strings.Contains(ref, "instagram.com/"):
		m := instagramNameRe.FindStringSubmatch(ref)
		if m == nil {
			return Target{}, ErrInvalidTarget
		}
		target.SearchName = m[1]

	case ref != "" && !strings.HasPrefix(ref, "http"):
		target.SearchName = ref

	default:
		return Target{}, ErrInvalidTarget
	}

	return target, nil
}
