package sorter

// MergeSort returns a sorted copy of items, ordered by cmp. Elements for which
// cmp returns 0 keep their relative order.
func MergeSort[T any](items []T, cmp func(a, b T) int) []T {
	out := make([]T, len(items))
	copy(out, items)
	buf := make([]T, len(items))
	mergeSort(out, buf, cmp)
	return out
}

// mergeSort sorts s in place using buf (len(buf) == len(s)) as scratch space.
func mergeSort[T any](s, buf []T, cmp func(a, b T) int) {
	if len(s) < 2 {
		return
	}
	mid := len(s) / 2
	mergeSort(s[:mid], buf[:mid], cmp)
	mergeSort(s[mid:], buf[mid:], cmp)
	merge(s, mid, buf, cmp)
}

// merge combines the sorted runs s[:mid] and s[mid:]. Ties take the left
// element first, which is what makes the sort stable.
func merge[T any](s []T, mid int, buf []T, cmp func(a, b T) int) {
	copy(buf, s)
	left, right := buf[:mid], buf[mid:]

	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if cmp(left[i], right[j]) <= 0 {
			s[k] = left[i]
			i++
		} else {
			s[k] = right[j]
			j++
		}
		k++
	}
	k += copy(s[k:], left[i:])
	copy(s[k:], right[j:])
}
