package models

// Event names published to the notification sink after a committed mutation
const (
	EventFolderCreated         = "folder:created"
	EventFolderUpdated         = "folder:updated"
	EventFolderDeleted         = "folder:deleted"
	EventFolderBookmarkAdded   = "folder:bookmark_added"
	EventFolderBookmarkRemoved = "folder:bookmark_removed"

	EventCollectionCreated = "collection:created"
	EventCollectionUpdated = "collection:updated"
	EventCollectionDeleted = "collection:deleted"

	EventCollaboratorAdded   = "collaborator:added"
	EventCollaboratorUpdated = "collaborator:updated"
	EventCollaboratorRemoved = "collaborator:removed"
)
