package derive

// Resolve computes the effective selection for a master-detail list.
// A requested id that is present in the list wins; otherwise the first
// record in list order is selected. This also covers the delete case: when
// the previously selected record disappears, the selection reassigns to
// the first remaining record instead of dangling. An empty list yields an
// empty selection.
func Resolve(requested string, ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	if requested != "" {
		for _, id := range ids {
			if id == requested {
				return id
			}
		}
	}
	return ids[0]
}
