package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// userProvisioner resolves fixture users to real account IDs
type userProvisioner interface {
	EnsureUser(ctx context.Context, email, password string) (string, error)
}

type seeder struct {
	admin         userProvisioner // nil: use fixture IDs
	bookmarks     repositories.BookmarkRepository
	folders       services.FolderService
	collaborators services.CollaboratorService
	collections   services.CollectionService

	userIDs map[string]string
	stats   seedStats
}

type seedStats struct {
	Users, Folders, Bookmarks, Shares, Collections int
}

// Run goes through the service layer so seeded data obeys the same rules
// as API writes
func (s *seeder) Run(ctx context.Context, fx *Fixture) (seedStats, error) {
	s.userIDs = make(map[string]string, len(fx.Users))
	for _, u := range fx.Users {
		id, err := s.resolveUser(ctx, u)
		if err != nil {
			return s.stats, err
		}
		s.userIDs[u.Key] = id
		s.stats.Users++
	}

	for _, f := range fx.Folders {
		if err := s.seedFolder(ctx, s.userIDs[f.Owner], nil, f); err != nil {
			return s.stats, err
		}
	}

	for _, c := range fx.Collections {
		if err := s.seedCollection(ctx, c); err != nil {
			return s.stats, err
		}
	}
	return s.stats, nil
}

func (s *seeder) resolveUser(ctx context.Context, u SeedUser) (string, error) {
	if s.admin != nil && u.Email != "" {
		id, err := s.admin.EnsureUser(ctx, u.Email, u.Password)
		if err != nil {
			return "", fmt.Errorf("provision user %s: %w", u.Key, err)
		}
		return id, nil
	}
	if u.ID == "" {
		return "", fmt.Errorf("user %s: id is required without admin credentials", u.Key)
	}
	return u.ID, nil
}

func (s *seeder) seedFolder(ctx context.Context, ownerID string, parentID *string, f SeedFolder) error {
	folder, err := s.folders.CreateFolder(ctx, ownerID, &services.CreateFolderRequest{
		Name:     f.Name,
		ParentID: parentID,
		Color:    f.Color,
		Icon:     f.Icon,
	})

	var folderID string
	var conflict *domain.ConflictError
	switch {
	case err == nil:
		folderID = folder.ID
		s.stats.Folders++
	case errors.As(err, &conflict) && conflict.ResourceID != "":
		folderID = conflict.ResourceID
		log.Printf("  folder %q already exists, reusing %s", f.Name, folderID)
	default:
		return fmt.Errorf("create folder %q: %w", f.Name, err)
	}

	now := time.Now().UTC()
	for _, b := range f.Bookmarks {
		title := b.Title
		bookmark := &models.Bookmark{UserID: ownerID, URL: b.URL, Title: &title, CreatedAt: now, UpdatedAt: now}
		if err := s.bookmarks.Create(ctx, bookmark); err != nil {
			return fmt.Errorf("create bookmark %s: %w", b.URL, err)
		}
		if err := s.folders.AddBookmark(ctx, ownerID, folderID, bookmark.ID); err != nil && !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("link bookmark %s: %w", b.URL, err)
		}
		s.stats.Bookmarks++
	}

	if err := s.share(ctx, ownerID, models.ResourceFolder, folderID, f.Share); err != nil {
		return err
	}

	for _, child := range f.Children {
		if err := s.seedFolder(ctx, ownerID, &folderID, child); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedCollection(ctx context.Context, c SeedCollection) error {
	ownerID := s.userIDs[c.Owner]
	collection, err := s.collections.CreateCollection(ctx, ownerID, &services.CreateCollectionRequest{
		Name:        c.Name,
		Description: c.Description,
		IsPublic:    c.Public,
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", c.Name, err)
	}
	s.stats.Collections++
	if collection.ShareToken != nil {
		log.Printf("  collection %q shared at /api/shared/collections/%s", c.Name, *collection.ShareToken)
	}
	return s.share(ctx, ownerID, models.ResourceCollection, collection.ID, c.Share)
}

func (s *seeder) share(ctx context.Context, ownerID string, kind models.ResourceKind, resourceID string, shares []SeedShare) error {
	for _, sh := range shares {
		_, err := s.collaborators.AddCollaborator(ctx, ownerID, kind, resourceID, &services.CollaboratorRequest{
			UserID:     s.userIDs[sh.User],
			Permission: sh.Permission,
		})
		if err != nil && !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("share %s %s with %s: %w", kind, resourceID, sh.User, err)
		}
		if err == nil {
			s.stats.Shares++
		}
	}
	return nil
}
