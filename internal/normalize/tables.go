package normalize

// Tables are the static rewrite rules a Normalizer applies. They are read
// only after construction.
type Tables struct {
	Street   map[string]string // Abbreviated street token -> canonical token
	Expected map[string]bool   // Well-formed street words worth counting
	Amenity  map[string]string // Venue name -> amenity it must carry
	Fixes    map[string]string // Misspelled value -> correction
}

// DefaultTables returns the compiled-in rewrite rules
func DefaultTables() Tables {
	return Tables{
		Street: map[string]string{
			"St.":  "Street",
			"Ave":  "Avenue",
			"Ave.": "Avenue",
			"Rd.":  "Road",
			"Rd":   "Road",
			"RD":   "Road",
			"Blvd": "Boulevard",
			"Dr":   "Drive",
			"NE":   "Northeast",
			"N.W.": "Northwest",
			"NW":   "Northwest",
			"SE":   "Southeast",
			"N":    "North",
			"E":    "East",
			"N.":   "North",
			"E.":   "East",
		},
		Expected: setOf(
			"Street", "Avenue", "Boulevard", "Drive", "Court", "Place", "Square",
			"Lane", "Road", "Trail", "Parkway", "Commons", "Circle", "Northeast",
			"Northwest", "Southeast", "Southwest", "Way", "North", "South", "East",
			"West", "Suite",
		),
		Amenity: map[string]string{
			"Taco Mac":       "restaurant",
			"Subway":         "fast_food",
			"Landmark Diner": "restaurant",
			"McDonald's":     "fast_food",
		},
		Fixes: map[string]string{
			"Walgreen's":    "Walgreens",
			"social_centre": "social_center",
		},
	}
}

func setOf(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// clone copies every table so callers cannot mutate a Normalizer's rules
func (t Tables) clone() Tables {
	return Tables{
		Street:   cloneMap(t.Street),
		Expected: cloneMap(t.Expected),
		Amenity:  cloneMap(t.Amenity),
		Fixes:    cloneMap(t.Fixes),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
