package storage

const (
	recentQuotesKey   = "ahmed-travel-recent-quotes"
	favoriteScriptKey = "ahmed-travel-favorite-scripts"
)

// namespacedKey is prefix + base, suffixed with ":owner" for agent lists.
func namespacedKey(prefix, base, owner string) string {
	key := prefix + base
	if owner != "" {
		key += ":" + owner
	}

	return key
}
