package site

import (
	"bytes"
	"strings"
)

// Search returns the posts matching every whitespace-separated term of
// query. A term matches case-insensitively against the title, the tags or
// the body. An empty query matches nothing.
func Search(posts []*Post, query string) []*Post {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var matches []*Post
	for _, p := range posts {
		if matchesAll(p, terms) {
			matches = append(matches, p)
		}
	}
	return matches
}

func matchesAll(p *Post, terms []string) bool {
	title := strings.ToLower(p.Title)
	tags := strings.ToLower(strings.Join(p.Tags, "\n"))
	body := bytes.ToLower(p.Body)

	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(tags, term) || bytes.Contains(body, []byte(term)) {
			continue
		}
		return false
	}
	return true
}
