package group

import (
	"strconv"

	domgroup "github.com/groupdex/groupdex/internal/domain/group"
)

// groupToHash flattens a group into HSET fields.
func groupToHash(g domgroup.Group) map[string]string {
	pinned := "0"
	if g.Pinned() {
		pinned = "1"
	}
	return map[string]string{
		"name":        g.Name(),
		"description": g.Description(),
		"url":         g.URL(),
		"pinned":      pinned,
		"created_at":  strconv.FormatInt(g.CreatedAt(), 10),
	}
}

// groupFromHash hydrates a domain Group from an HGETALL result map.
func groupFromHash(id int64, m map[string]string) domgroup.Group {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return domgroup.Reconstruct(
		id,
		m["name"],
		m["description"],
		m["url"],
		m["pinned"] == "1",
		createdAt,
	)
}
