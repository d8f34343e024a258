package maps

// Returns a new map containing the entries for which the selector returns true.
func Select[K comparable, V any, MM ~map[K]V](m MM, selector func(K, V) bool) MM {
	res := make(MM)
	for k, v := range m {
		if selector(k, v) {
			res[k] = v
		}
	}
	return res
}

func Keys[K comparable, V any, M ~map[K]V](m M) []K {
	if len(m) == 0 {
		return nil
	}

	res := make([]K, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	return res
}
