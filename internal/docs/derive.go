package docs

import "strings"

// DeriveID prefixes the path, minus its ".md" extension, with the section.
func DeriveID(prefix, p string) string {
	return prefix + strings.TrimSuffix(cleanPath(p), markdownExt)
}

// DeriveTitle returns the text after the first "# " up to the end of that
// line. Content without a heading, or with an empty one, gets fallback.
func DeriveTitle(content, fallback string) string {
	if !strings.Contains(content, "#") {
		return fallback
	}
	start := strings.Index(content, "# ")
	if start == -1 {
		return fallback
	}
	line := content[start+2:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	if title := strings.TrimSpace(line); title != "" {
		return title
	}
	return fallback
}
