package models

// ResolutionKind classifies the outcome of resolving a URL path.
type ResolutionKind int

const (
	ResolvedNotFound ResolutionKind = iota
	ResolvedArticle
	ResolvedFolderIndex
	ResolvedListing
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolvedArticle:
		return "article"
	case ResolvedFolderIndex:
		return "folder-index"
	case ResolvedListing:
		return "listing"
	default:
		return "not-found"
	}
}

// Breadcrumb is one entry of the breadcrumb trail. Leaf articles end with a
// title crumb that the presentation layer renders unlinked.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// BackLink points at the parent of the resolved page.
type BackLink struct {
	Text string `json:"text"`
	Path string `json:"path"`
}

// Resolution is the single, total outcome of mapping URL path segments to
// content. PathSegments is the canonical (de-duplicated) chain; for folder
// indexes it differs from the file's on-disk chain by one trailing repeat.
type Resolution struct {
	Kind         ResolutionKind `json:"kind"`
	Collection   string         `json:"collection,omitempty"`
	PathSegments []string       `json:"pathSegments,omitempty"`
	Post         *Post          `json:"post,omitempty"`
	Breadcrumbs  []Breadcrumb   `json:"breadcrumbs,omitempty"`
	BackLink     *BackLink      `json:"backLink,omitempty"`
}
