package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
	"linkhive/internal/service/auth"
)

// memStore is an in-memory stand-in for Postgres. ExecTx snapshots the
// whole store and restores it when the unit of work fails, so rollback
// behaviour is observable in tests.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	folders           map[string]models.Folder
	bookmarks         map[string]models.Bookmark
	links             map[linkKey]time.Time
	folderCollabs     map[collabKey]models.Collaborator
	collectionCollabs map[collabKey]models.Collaborator
	tags              map[string]string // id -> owner
	collections       map[string]models.Collection

	// fail makes the named operation return the error
	fail map[string]error

	childQueries int
	lockCalls    []string
	// trace records tree locks and child scans in call order; scans made
	// outside a transaction are marked so lock discipline can be asserted
	trace []string
}

type linkKey struct{ folderID, bookmarkID string }

type collabKey struct{ resourceID, userID string }

func newMemStore() *memStore {
	return &memStore{
		folders:           map[string]models.Folder{},
		bookmarks:         map[string]models.Bookmark{},
		links:             map[linkKey]time.Time{},
		folderCollabs:     map[collabKey]models.Collaborator{},
		collectionCollabs: map[collabKey]models.Collaborator{},
		tags:              map[string]string{},
		collections:       map[string]models.Collection{},
		fail:              map[string]error{},
	}
}

func (s *memStore) failure(op string) error {
	return s.fail[op]
}

type memSnapshot struct {
	folders           map[string]models.Folder
	bookmarks         map[string]models.Bookmark
	links             map[linkKey]time.Time
	folderCollabs     map[collabKey]models.Collaborator
	collectionCollabs map[collabKey]models.Collaborator
	tags              map[string]string
	collections       map[string]models.Collection
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		folders:           maps.Clone(s.folders),
		bookmarks:         maps.Clone(s.bookmarks),
		links:             maps.Clone(s.links),
		folderCollabs:     maps.Clone(s.folderCollabs),
		collectionCollabs: maps.Clone(s.collectionCollabs),
		tags:              maps.Clone(s.tags),
		collections:       maps.Clone(s.collections),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = snap.folders
	s.bookmarks = snap.bookmarks
	s.links = snap.links
	s.folderCollabs = snap.folderCollabs
	s.collectionCollabs = snap.collectionCollabs
	s.tags = snap.tags
	s.collections = snap.collections
}

// ---- transactions ----

type memTxKey struct{}

type memTx struct{ s *memStore }

func (t memTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		t.s.restore(snap)
		return err
	}
	if err := t.s.failure("commit"); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ---- folders ----

type memFolders struct{ s *memStore }

func folderNotFound(id string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
}

func (r memFolders) Create(_ context.Context, f *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("folders.Create"); err != nil {
		return err
	}
	for _, other := range r.s.folders {
		if !other.IsDeleted && other.UserID == f.UserID && sameParent(other.ParentID, f.ParentID) && other.Name == f.Name {
			return &domain.ConflictError{Message: "duplicate sibling", ResourceType: "folder", ResourceID: other.ID}
		}
	}
	f.ID = uuid.NewString()
	r.s.folders[f.ID] = *f
	return nil
}

func (r memFolders) live(id string) (models.Folder, bool) {
	f, ok := r.s.folders[id]
	return f, ok && !f.IsDeleted
}

func (r memFolders) GetByID(_ context.Context, id, userID string) (*models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.live(id)
	if !ok || f.UserID != userID {
		return nil, folderNotFound(id)
	}
	return &f, nil
}

func (r memFolders) GetByIDOnly(_ context.Context, id string) (*models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.live(id)
	if !ok {
		return nil, folderNotFound(id)
	}
	return &f, nil
}

func (r memFolders) GetOwnerID(_ context.Context, id string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("folders.GetOwnerID"); err != nil {
		return "", err
	}
	f, ok := r.live(id)
	if !ok {
		return "", folderNotFound(id)
	}
	return f.UserID, nil
}

func (r memFolders) Update(_ context.Context, f *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("folders.Update"); err != nil {
		return err
	}
	existing, ok := r.live(f.ID)
	if !ok || existing.UserID != f.UserID {
		return folderNotFound(f.ID)
	}
	r.s.folders[f.ID] = *f
	return nil
}

func (r memFolders) ListChildren(_ context.Context, parentID *string, userID string) ([]models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Folder{}
	for _, f := range r.s.folders {
		if !f.IsDeleted && f.UserID == userID && sameParent(f.ParentID, parentID) {
			out = append(out, f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (r memFolders) ListChildIDs(ctx context.Context, userID string, parentIDs []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("folders.ListChildIDs"); err != nil {
		return nil, err
	}
	r.s.childQueries++
	if ctx.Value(memTxKey{}) != nil {
		r.s.trace = append(r.s.trace, "children:"+userID)
	} else {
		r.s.trace = append(r.s.trace, "children-outside-tx:"+userID)
	}
	var out []string
	for _, f := range r.s.folders {
		if !f.IsDeleted && f.UserID == userID && f.ParentID != nil && slices.Contains(parentIDs, *f.ParentID) {
			out = append(out, f.ID)
		}
	}
	return out, nil
}

func (r memFolders) FindSiblingByName(_ context.Context, userID string, parentID *string, name string) (*models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.folders {
		if !f.IsDeleted && f.UserID == userID && sameParent(f.ParentID, parentID) && f.Name == name {
			return &f, nil
		}
	}
	return nil, nil
}

func (r memFolders) List(_ context.Context, userID string, filter repositories.FolderListFilter) ([]models.Folder, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Folder
	for _, f := range r.s.folders {
		if f.IsDeleted || f.UserID != userID {
			continue
		}
		if filter.ByParent && !sameParent(f.ParentID, filter.ParentID) {
			continue
		}
		all = append(all, f)
	}
	sortFolders(all)
	page := filter.Page.Normalize()
	start := min(page.Offset, len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], len(all), nil
}

func (r memFolders) GetAllByUser(_ context.Context, userID string) ([]models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("folders.GetAllByUser"); err != nil {
		return nil, err
	}
	var out []models.Folder
	for _, f := range r.s.folders {
		if !f.IsDeleted && f.UserID == userID {
			out = append(out, f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (r memFolders) ListSharedWith(_ context.Context, userID string) ([]models.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Folder{}
	for key := range r.s.folderCollabs {
		if key.userID != userID {
			continue
		}
		if f, ok := r.live(key.resourceID); ok {
			out = append(out, f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (r memFolders) SoftDeleteMany(_ context.Context, userID string, ids []string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("folders.SoftDeleteMany"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		f, ok := r.live(id)
		if !ok || f.UserID != userID {
			continue
		}
		f.IsDeleted = true
		f.DeletedAt = &at
		f.UpdatedAt = at
		r.s.folders[id] = f
		n++
	}
	return n, nil
}

func (r memFolders) LockTree(ctx context.Context, userID string) error {
	if ctx.Value(memTxKey{}) == nil {
		return errors.New("lock folder tree: no transaction in context")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lockCalls = append(r.s.lockCalls, userID)
	r.s.trace = append(r.s.trace, "lock:"+userID)
	return nil
}

func sortFolders(fs []models.Folder) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Name != fs[j].Name {
			return fs[i].Name < fs[j].Name
		}
		return fs[i].ID < fs[j].ID
	})
}

// ---- bookmarks and links ----

type memBookmarks struct{ s *memStore }

func (r memBookmarks) Create(_ context.Context, b *models.Bookmark) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = uuid.NewString()
	r.s.bookmarks[b.ID] = *b
	return nil
}

func (r memBookmarks) GetByID(_ context.Context, id, userID string) (*models.Bookmark, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookmarks[id]
	if !ok || b.IsDeleted || b.UserID != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("bookmark %s not found", id)}
	}
	return &b, nil
}

func (r memBookmarks) ListByFolder(_ context.Context, folderID string, page models.Page) ([]models.Bookmark, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Bookmark
	for key := range r.s.links {
		if key.folderID != folderID {
			continue
		}
		if b, ok := r.s.bookmarks[key.bookmarkID]; ok && !b.IsDeleted {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	page = page.Normalize()
	start := min(page.Offset, len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], len(all), nil
}

type memLinks struct{ s *memStore }

func (r memLinks) Add(_ context.Context, folderID, bookmarkID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := linkKey{folderID, bookmarkID}
	if _, exists := r.s.links[key]; exists {
		return &domain.ConflictError{Message: "bookmark is already in this folder", ResourceType: "folder_bookmark", ResourceID: bookmarkID}
	}
	r.s.links[key] = at
	return nil
}

func (r memLinks) Remove(_ context.Context, folderID, bookmarkID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := linkKey{folderID, bookmarkID}
	if _, exists := r.s.links[key]; !exists {
		return &domain.NotFoundError{Message: "bookmark is not in this folder"}
	}
	delete(r.s.links, key)
	return nil
}

func (r memLinks) ListBookmarkIDs(_ context.Context, folderIDs []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for key := range r.s.links {
		if _, dup := seen[key.bookmarkID]; dup || !slices.Contains(folderIDs, key.folderID) {
			continue
		}
		seen[key.bookmarkID] = struct{}{}
		out = append(out, key.bookmarkID)
	}
	return out, nil
}

func (r memLinks) CopyToFolder(_ context.Context, sourceFolderIDs []string, targetFolderID string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("links.CopyToFolder"); err != nil {
		return 0, err
	}
	var inserted int64
	for key := range maps.Clone(r.s.links) {
		if !slices.Contains(sourceFolderIDs, key.folderID) {
			continue
		}
		target := linkKey{targetFolderID, key.bookmarkID}
		if _, exists := r.s.links[target]; exists {
			continue
		}
		r.s.links[target] = at
		inserted++
	}
	return inserted, nil
}

func (r memLinks) DeleteByFolders(_ context.Context, folderIDs []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("links.DeleteByFolders"); err != nil {
		return 0, err
	}
	var n int64
	for key := range r.s.links {
		if slices.Contains(folderIDs, key.folderID) {
			delete(r.s.links, key)
			n++
		}
	}
	return n, nil
}

func (r memLinks) CountByFolder(_ context.Context, userID string) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for key := range r.s.links {
		f, ok := r.s.folders[key.folderID]
		b, bok := r.s.bookmarks[key.bookmarkID]
		if ok && !f.IsDeleted && f.UserID == userID && bok && !b.IsDeleted {
			counts[key.folderID]++
		}
	}
	return counts, nil
}

// ---- collaborators ----

type memCollaborators struct {
	s          *memStore
	collection bool
}

func (r memCollaborators) table() map[collabKey]models.Collaborator {
	if r.collection {
		return r.s.collectionCollabs
	}
	return r.s.folderCollabs
}

func (r memCollaborators) GetPermission(_ context.Context, resourceID, userID string) (models.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.table()[collabKey{resourceID, userID}]
	if !ok {
		return "", &domain.NotFoundError{Message: "not a collaborator"}
	}
	return c.Permission, nil
}

func (r memCollaborators) Create(_ context.Context, c *models.Collaborator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := collabKey{c.ResourceID, c.UserID}
	if _, exists := r.table()[key]; exists {
		return &domain.ConflictError{Message: "already a collaborator", ResourceType: "collaborator", ResourceID: c.UserID}
	}
	r.table()[key] = *c
	return nil
}

func (r memCollaborators) UpdatePermission(_ context.Context, resourceID, userID string, p models.Permission, at time.Time) (*models.Collaborator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := collabKey{resourceID, userID}
	c, ok := r.table()[key]
	if !ok {
		return nil, &domain.NotFoundError{Message: "not a collaborator"}
	}
	c.Permission = p
	c.UpdatedAt = at
	r.table()[key] = c
	return &c, nil
}

func (r memCollaborators) Delete(_ context.Context, resourceID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := collabKey{resourceID, userID}
	if _, ok := r.table()[key]; !ok {
		return &domain.NotFoundError{Message: "not a collaborator"}
	}
	delete(r.table(), key)
	return nil
}

func (r memCollaborators) List(_ context.Context, resourceID string) ([]models.Collaborator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Collaborator{}
	for key, c := range r.table() {
		if key.resourceID == resourceID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r memCollaborators) ListUserIDs(_ context.Context, resourceIDs []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for key := range r.table() {
		if slices.Contains(resourceIDs, key.resourceID) && !slices.Contains(out, key.userID) {
			out = append(out, key.userID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r memCollaborators) DeleteByResources(_ context.Context, resourceIDs []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for key := range r.table() {
		if slices.Contains(resourceIDs, key.resourceID) {
			delete(r.table(), key)
			n++
		}
	}
	return n, nil
}

// ---- tags and collections ----

type memTags struct{ s *memStore }

func (r memTags) GetOwnerID(_ context.Context, id string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, ok := r.s.tags[id]
	if !ok {
		return "", &domain.NotFoundError{Message: "tag not found"}
	}
	return owner, nil
}

type memCollections struct{ s *memStore }

func collectionNotFound(id string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("collection %s not found", id)}
}

func (r memCollections) Create(_ context.Context, c *models.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = uuid.NewString()
	r.s.collections[c.ID] = *c
	return nil
}

func (r memCollections) GetByIDOnly(_ context.Context, id string) (*models.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.collections[id]
	if !ok || c.IsDeleted {
		return nil, collectionNotFound(id)
	}
	return &c, nil
}

func (r memCollections) GetByShareToken(_ context.Context, token string) (*models.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.collections {
		if !c.IsDeleted && c.IsPublic && c.ShareToken != nil && *c.ShareToken == token {
			return &c, nil
		}
	}
	return nil, collectionNotFound("for share link")
}

func (r memCollections) GetOwnerID(_ context.Context, id string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.collections[id]
	if !ok || c.IsDeleted {
		return "", collectionNotFound(id)
	}
	return c.OwnerID, nil
}

func (r memCollections) ListByOwner(_ context.Context, ownerID string, page models.Page) ([]models.Collection, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Collection
	for _, c := range r.s.collections {
		if !c.IsDeleted && c.OwnerID == ownerID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	page = page.Normalize()
	start := min(page.Offset, len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], len(all), nil
}

func (r memCollections) Update(_ context.Context, c *models.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.collections[c.ID]
	if !ok || existing.IsDeleted {
		return collectionNotFound(c.ID)
	}
	r.s.collections[c.ID] = *c
	return nil
}

func (r memCollections) SoftDelete(_ context.Context, id, ownerID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.collections[id]
	if !ok || c.IsDeleted || c.OwnerID != ownerID {
		return collectionNotFound(id)
	}
	c.IsDeleted = true
	c.DeletedAt = &at
	c.ShareToken = nil
	r.s.collections[id] = c
	return nil
}

// ---- side effect recorders ----

type recordedEvent struct {
	UserID  string
	Event   string
	Payload any
}

type recordingSink struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (r *recordingSink) Emit(_ context.Context, userID, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{userID, event, payload})
	return r.err
}

func (r *recordingSink) recipients(event string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e.UserID)
		}
	}
	sort.Strings(out)
	return out
}

// recordingCache implements services.Cache without storing anything
type recordingCache struct {
	mu       sync.Mutex
	keys     []string
	patterns []string
	err      error
}

func (c *recordingCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, keys...)
	return c.err
}

func (c *recordingCache) InvalidatePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	return c.err
}

func (c *recordingCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (c *recordingCache) Set(context.Context, string, any, time.Duration) error { return nil }

// ---- fixture ----

type fixture struct {
	store         *memStore
	sink          *recordingSink
	cache         *recordingCache
	folders       *FolderService
	collaborators *CollaboratorService
	collections   *CollectionService
	now           time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	sink := &recordingSink{}
	cache := &recordingCache{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	folderRepo := memFolders{store}
	collectionRepo := memCollections{store}
	folderCollabs := memCollaborators{s: store}
	collectionCollabs := memCollaborators{s: store, collection: true}

	deps := Deps{
		Folders:                 folderRepo,
		Bookmarks:               memBookmarks{store},
		FolderBookmarks:         memLinks{store},
		FolderCollaborators:     folderCollabs,
		Collections:             collectionRepo,
		CollectionCollaborators: collectionCollabs,
		Authorizer:              auth.NewPermissionEvaluator(folderRepo, memTags{store}, collectionRepo, folderCollabs, collectionCollabs),
		TxManager:               memTx{store},
		Cache:                   cache,
		Notifier:                sink,
		CacheTTL:                time.Minute,
		Logger:                  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:                     func() time.Time { return now },
	}

	return &fixture{
		store:         store,
		sink:          sink,
		cache:         cache,
		folders:       NewFolderService(deps),
		collaborators: NewCollaboratorService(deps),
		collections:   NewCollectionService(deps),
		now:           now,
	}
}

func strPtr(s string) *string { return &s }

// mkFolder creates a folder through the service and fails the test on error
func (f *fixture) mkFolder(t *testing.T, userID, name string, parent *models.Folder) *models.Folder {
	t.Helper()
	req := &services.CreateFolderRequest{Name: name}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	folder, err := f.folders.CreateFolder(context.Background(), userID, req)
	require.NoError(t, err)
	return folder
}

// mkBookmark inserts a live bookmark directly into the store
func (f *fixture) mkBookmark(userID, title string) string {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	id := uuid.NewString()
	f.store.bookmarks[id] = models.Bookmark{
		ID:        id,
		UserID:    userID,
		URL:       "https://example.com/" + title,
		Title:     &title,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	return id
}

func (f *fixture) link(t *testing.T, folderID string, bookmarkIDs ...string) {
	t.Helper()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, b := range bookmarkIDs {
		f.store.links[linkKey{folderID, b}] = f.now
	}
}

func (f *fixture) share(folderID, userID string, p models.Permission) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.folderCollabs[collabKey{folderID, userID}] = models.Collaborator{
		ResourceID: folderID, UserID: userID, Permission: p, CreatedAt: f.now, UpdatedAt: f.now,
	}
}

func (f *fixture) folder(id string) models.Folder {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.folders[id]
}

func (f *fixture) linksOf(folderID string) []string {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []string
	for key := range f.store.links {
		if key.folderID == folderID {
			out = append(out, key.bookmarkID)
		}
	}
	sort.Strings(out)
	return out
}
