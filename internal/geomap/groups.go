package geomap

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// GroupByPrefix buckets object indices by the lower-cased first underscore
// token of the object's base name, in first-seen order. Scene importers put
// each bucket in its own collection.
func GroupByPrefix(objects []PlacedObject) *orderedmap.OrderedMap[string, []int] {
	groups := orderedmap.NewOrderedMap[string, []int]()
	for i, o := range objects {
		key := prefixOf(o.NameRef)
		idx, _ := groups.Get(key)
		groups.Set(key, append(idx, i))
	}
	return groups
}

func prefixOf(nameRef string) string {
	base := nameRef
	if i := strings.LastIndexAny(base, `\/`); i >= 0 {
		base = base[i+1:]
	}
	head, _, _ := strings.Cut(base, "_")
	return strings.ToLower(head)
}
