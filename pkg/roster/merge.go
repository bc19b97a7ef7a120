package roster

import (
	"sort"
	"strings"

	"twitterai/pkg/models"
)

// Changes reports what a merge did, for the sync command's log output
type Changes struct {
	Added   []string
	Removed []string
}

// Empty reports whether the merge changed anything
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Merge reconciles the existing roster with a freshly fetched account list.
// The fetched list decides membership and order: accounts that already exist
// keep their category but take the fetched display name, new accounts get
// the default category, and accounts absent from the fetched list are
// dropped. Username matching is case-insensitive.
func Merge(existing, fetched []models.AccountSpec) ([]models.AccountSpec, Changes) {
	existingByName := make(map[string]models.AccountSpec, len(existing))
	for _, acc := range existing {
		existingByName[strings.ToLower(acc.Username)] = acc
	}

	fetchedNames := make(map[string]bool, len(fetched))
	merged := make([]models.AccountSpec, 0, len(fetched))
	var changes Changes

	for _, acc := range fetched {
		key := strings.ToLower(acc.Username)
		fetchedNames[key] = true

		if prev, ok := existingByName[key]; ok {
			prev.DisplayName = acc.DisplayName
			prev.ApplyDefaults()
			merged = append(merged, prev)
			continue
		}

		acc.ApplyDefaults()
		merged = append(merged, acc)
		changes.Added = append(changes.Added, key)
	}

	for key := range existingByName {
		if !fetchedNames[key] {
			changes.Removed = append(changes.Removed, key)
		}
	}

	sort.Strings(changes.Added)
	sort.Strings(changes.Removed)
	return merged, changes
}
