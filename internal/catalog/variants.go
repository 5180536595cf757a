package catalog

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazarly/catalog-backend/internal/models"
)

// GroupVariants reconstructs per-axis combination records from a flat list of
// variant fragments. An axis is any fragment key shaped like a 24-hex object
// id (an attribute identifier). For each axis independently, fragments sharing
// the same value at that key collapse into one combination: plain fields are
// merged last-write-wins, while other axis keys accumulate the distinct option
// ids that co-occur with the combination.
func GroupVariants(fragments []models.VariantFragment) map[string][]models.VariantCombination {
	grouped := make(map[string][]models.VariantCombination)

	axes := collectAxes(fragments)
	for _, axis := range axes {
		byValue := make(map[string]models.VariantCombination)
		var order []string

		for _, frag := range fragments {
			raw, ok := frag[axis]
			if !ok {
				continue
			}
			value := fragmentID(raw)
			if value == "" {
				continue
			}

			combo, seen := byValue[value]
			if !seen {
				combo = models.VariantCombination{axis: value}
				byValue[value] = combo
				order = append(order, value)
			}

			for key, fieldVal := range frag {
				if key == axis {
					continue
				}
				if isAxisKey(key) {
					// Another axis varying alongside this combination:
					// accumulate its referenced option ids, deduplicated.
					id := fragmentID(fieldVal)
					if id == "" {
						continue
					}
					list, _ := combo[key].([]string)
					if !containsString(list, id) {
						combo[key] = append(list, id)
					}
					continue
				}
				combo[key] = fieldVal
			}
		}

		combos := make([]models.VariantCombination, 0, len(order))
		for _, value := range order {
			combos = append(combos, byValue[value])
		}
		grouped[axis] = combos
	}

	return grouped
}

func collectAxes(fragments []models.VariantFragment) []string {
	var axes []string
	seen := make(map[string]bool)
	for _, frag := range fragments {
		for key := range frag {
			if isAxisKey(key) && !seen[key] {
				seen[key] = true
				axes = append(axes, key)
			}
		}
	}
	return axes
}

func isAxisKey(key string) bool {
	return len(key) == 24 && primitive.IsValidObjectID(key)
}

// fragmentID renders an axis value as its hex form regardless of whether the
// document stored it as a string or a real ObjectID.
func fragmentID(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case primitive.ObjectID:
		return val.Hex()
	default:
		return ""
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
