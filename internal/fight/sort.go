package fight

import (
	"sort"
)

// SortChronological orders fights oldest first, breaking date ties by id
// so that identical inputs always produce identical iteration order.
func SortChronological(fights []Fight) {
	sort.SliceStable(fights, func(i, j int) bool {
		if fights[i].Date.Equal(fights[j].Date) {
			return fights[i].ID < fights[j].ID
		}
		return fights[i].Date.Before(fights[j].Date)
	})
}

func sortFightsByDate(fights []Fight) {
	SortChronological(fights)
}

func sortFightersByID(fighters []Fighter) {
	sort.Slice(fighters, func(i, j int) bool { return fighters[i].ID < fighters[j].ID })
}
