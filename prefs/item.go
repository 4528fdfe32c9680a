package prefs

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Track names the kind of a per-item saved choice.
type Track string

const (
	Audio    Track = "audio"
	Source   Track = "source"
	Subtitle Track = "subtitle"
)

// ItemKey renders the store key of a saved track choice, e.g. item_42_saved_audio_id.
func ItemKey(itemID int, track Track) string {
	return fmt.Sprintf("item_%d_saved_%s_id", itemID, track)
}

// ItemKeys returns every stored key that belongs to the item.
func ItemKeys(store Store, itemID int) []string {
	prefix := fmt.Sprintf("item_%d_", itemID)
	return lo.Filter(store.Keys(), func(k string, _ int) bool {
		return strings.HasPrefix(k, prefix)
	})
}

// ClearItem removes all saved choices of the item.
func ClearItem(store Store, itemID int) error {
	for _, k := range ItemKeys(store, itemID) {
		if err := store.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
