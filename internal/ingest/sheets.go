package ingest

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	sheetIDRe = regexp.MustCompile(`spreadsheets/d/([a-zA-Z0-9_-]+)`)
	gidRe     = regexp.MustCompile(`[#&]gid=([0-9]+)`)
	bareIDRe  = regexp.MustCompile(`^[a-zA-Z0-9_-]{40,}$`)
)

// ExportURL turns a Google Sheets link or bare sheet id into its CSV export
// URL. Links that already point at a CSV export, and anything it does not
// recognise, are returned unchanged.
func ExportURL(input string) string {
	if input == "" {
		return ""
	}
	if strings.Contains(input, "/pub?output=csv") || strings.Contains(input, "/export?format=csv") {
		return input
	}

	var id, gid string
	if m := sheetIDRe.FindStringSubmatch(input); m != nil {
		id = m[1]
		if g := gidRe.FindStringSubmatch(input); g != nil {
			gid = g[1]
		}
	} else if trimmed := strings.TrimSpace(input); bareIDRe.MatchString(trimmed) {
		id = trimmed
	}
	if id == "" {
		return input
	}

	out := "https://docs.google.com/spreadsheets/d/" + id + "/export?format=csv"
	if gid != "" {
		out += "&gid=" + gid
	}
	return out
}

// Proxied prefixes target with a pass-through proxy, if one is configured.
func Proxied(proxy, target string) string {
	if proxy == "" {
		return target
	}
	return proxy + url.QueryEscape(target)
}
