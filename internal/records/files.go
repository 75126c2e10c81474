package records

import "strings"

// hostedFileMarkers identify links to the store's own file hosting. Those
// links expire and cannot be re-linked as external files.
var hostedFileMarkers = []string{
	"prod-files-secure.notion",
	"s3.us-west-2.amazonaws.com/secure.notion",
}

// IsHostedFile reports whether url points at the store's internal hosting.
func IsHostedFile(url string) bool {
	for _, m := range hostedFileMarkers {
		if strings.Contains(url, m) {
			return true
		}
	}
	return false
}

// FilterHostedFiles drops store-hosted links, returning nil when nothing is
// left so the caller can omit the field from a patch.
func FilterHostedFiles(urls []string) []string {
	var out []string
	for _, u := range urls {
		if u == "" || IsHostedFile(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
