package hierarchy

import (
	"log/slog"
	"time"

	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// Deps carries everything the hierarchy services share.
// Cache and Notifier are optional.
type Deps struct {
	Folders                 repositories.FolderRepository
	Bookmarks               repositories.BookmarkRepository
	FolderBookmarks         repositories.FolderBookmarkRepository
	FolderCollaborators     repositories.CollaboratorRepository
	Collections             repositories.CollectionRepository
	CollectionCollaborators repositories.CollaboratorRepository
	Authorizer              services.Authorizer
	TxManager               repositories.TransactionManager
	Cache                   services.Cache
	Notifier                services.NotificationSink
	CacheTTL                time.Duration
	Logger                  *slog.Logger

	// Now is overridable in tests
	Now func() time.Time
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
}

func (d *Deps) sideEffects() *sideEffects {
	var invalidator services.CacheInvalidator
	if d.Cache != nil {
		invalidator = d.Cache
	}
	return &sideEffects{cache: invalidator, sink: d.Notifier, logger: d.Logger}
}

func (d *Deps) collaboratorRepo(kind models.ResourceKind) repositories.CollaboratorRepository {
	switch kind {
	case models.ResourceFolder:
		return d.FolderCollaborators
	case models.ResourceCollection:
		return d.CollectionCollaborators
	}
	return nil
}
