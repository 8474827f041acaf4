package config

const (
	// MaxFolderNameLength matches the VARCHAR(100) name column.
	MaxFolderNameLength = 100

	// MaxCollectionNameLength matches the VARCHAR(100) name column.
	MaxCollectionNameLength = 100

	// MaxDescriptionLength applies to folder and collection descriptions.
	MaxDescriptionLength = 1000

	// MaxIconLength is enough for an emoji sequence or a short icon key.
	MaxIconLength = 64

	// MaxPageSize caps every paginated listing.
	MaxPageSize = 100
)
