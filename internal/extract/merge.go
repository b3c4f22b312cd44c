// internal/extract/merge.go
package extract

// MergedMeta is the combined product metadata after remote data has been
// layered over local data. Empty strings mean absent.
type MergedMeta struct {
	ProductName     string
	ProductCategory string
	Manufacturer    string
}

// MergeMeta combines local and remote metadata with fixed precedence: a
// non-empty remote value wins, otherwise the local value stands. Category has
// no local source, so it comes purely from the remote side.
func MergeMeta(base LocalMeta, extra RemoteMeta) MergedMeta {
	return MergedMeta{
		ProductName:     firstNonEmpty(extra.Name, base.ProductName),
		ProductCategory: extra.Category,
		Manufacturer:    firstNonEmpty(extra.Brand, base.Manufacturer),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
