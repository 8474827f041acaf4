package models

// ResourceKind identifies which kind of owned resource an authorization check targets
type ResourceKind int

const (
	ResourceFolder ResourceKind = iota + 1
	ResourceTag
	ResourceCollection
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceFolder:
		return "folder"
	case ResourceTag:
		return "tag"
	case ResourceCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Shareable reports whether the kind supports collaborator rows
func (k ResourceKind) Shareable() bool {
	return k == ResourceFolder || k == ResourceCollection
}
