package diagram

import (
	"fmt"

	"erd/link"
)

// EnsureUniqueLinkIDs ensures all links in a document have unique IDs.
// Links with a missing or repeated ID get "link-N", N being the first free
// number.
func EnsureUniqueLinkIDs(doc *Document) {
	if doc == nil || len(doc.Links) == 0 {
		return
	}

	used := make(map[string]bool, len(doc.Links))
	var needsID []int
	for i := range doc.Links {
		id := doc.Links[i].ID
		if id == "" || used[id] {
			needsID = append(needsID, i)
			continue
		}
		used[id] = true
	}

	next := 1
	for _, i := range needsID {
		id := fmt.Sprintf("link-%d", next)
		for used[id] {
			next++
			id = fmt.Sprintf("link-%d", next)
		}
		doc.Links[i].ID = id
		used[id] = true
	}
}

// linkIndex maps link IDs to their position.
func linkIndex(links []link.Link) map[string]int {
	index := make(map[string]int, len(links))
	for i, l := range links {
		index[l.ID] = i
	}
	return index
}
