package wardrobe

// Item is the capability every catalogued garment exposes to the matching
// and selection code. The storage layer keeps richer records (upload
// handles, presigned URLs, processing state) but the core compares items by
// Identity only; DisplayRef is what gets serialized and shown.
type Item interface {
	Identity() string
	DisplayRef() string
}

// CatalogItem is the plain value implementation used for loaded catalogs
// and tests.
type CatalogItem struct {
	ID  string
	Ref string
}

func (i CatalogItem) Identity() string { return i.ID }

func (i CatalogItem) DisplayRef() string {
	if i.Ref == "" {
		return i.ID
	}
	return i.Ref
}

// ItemFromRef builds an item whose identity and display reference are the
// same string, e.g. a filename from a legacy closet directory.
func ItemFromRef(ref string) CatalogItem {
	return CatalogItem{ID: ref, Ref: ref}
}

func sameItem(a, b Item) bool {
	return a != nil && b != nil && a.Identity() == b.Identity()
}
