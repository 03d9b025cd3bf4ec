package domain

// DefaultCollection is the vector store collection used when a request
// does not name one.
const DefaultCollection = "documents"

// CollectionMetadata holds display metadata for one collection or alias.
// An alias entry redirects title/logo lookups to its target; its own
// Title and Logo fields are ignored for display.
type CollectionMetadata struct {
	// Title is the display title. Optional.
	Title string `json:"title,omitempty"`

	// Logo is the URL path of the collection's logo image. Optional.
	Logo string `json:"logo,omitempty"`

	// AliasOf names the target collection when this entry is an alias.
	AliasOf string `json:"aliasOf,omitempty"`
}

// IsAlias reports whether this entry redirects to another collection.
func (m CollectionMetadata) IsAlias() bool {
	return m.AliasOf != ""
}
