package project

// Merge deep-merges src into dst and returns dst.
// Values from src win on conflicts, nested objects are merged recursively,
// and arrays or scalars from src replace whatever dst holds.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}

	for key, srcValue := range src {
		srcObject, srcIsObject := srcValue.(map[string]any)
		dstObject, dstIsObject := dst[key].(map[string]any)

		if srcIsObject && dstIsObject {
			dst[key] = Merge(dstObject, srcObject)
			continue
		}

		dst[key] = srcValue
	}

	return dst
}
