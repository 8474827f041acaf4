package hierarchy

import (
	"context"

	"linkhive/internal/domain/models"
)

// GetFolderTree returns the caller's folder forest with bookmark counts.
// Folders whose parent is missing from the live set are promoted to roots.
func (s *FolderService) GetFolderTree(ctx context.Context, userID string) (roots []*models.FolderTreeNode, err error) {
	defer observe(s.logger, &err, "get_folder_tree", "", userID)

	return cached(ctx, s.cache, aggregateTTL(s.cacheTTL), s.logger, folderTreeKey(userID), func() ([]*models.FolderTreeNode, error) {
		folders, err := s.folders.GetAllByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		counts, err := s.links.CountByFolder(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.buildTree(userID, folders, counts), nil
	})
}

func (s *FolderService) buildTree(userID string, folders []models.Folder, counts map[string]int) []*models.FolderTreeNode {
	nodes := make(map[string]*models.FolderTreeNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &models.FolderTreeNode{
			ID:            f.ID,
			Name:          f.Name,
			ParentID:      f.ParentID,
			Description:   f.Description,
			Icon:          f.Icon,
			Color:         f.Color,
			BookmarkCount: counts[f.ID],
			CreatedAt:     f.CreatedAt,
			Children:      []*models.FolderTreeNode{},
		}
	}

	// Input order is preserved among siblings
	roots := []*models.FolderTreeNode{}
	orphans := 0
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*f.ParentID]
		if !ok {
			orphans++
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	if orphans > 0 {
		s.logger.Warn("folder tree has orphaned folders", "user_id", userID, "count", orphans)
	}
	if reachable := countNodes(roots); reachable != len(nodes) {
		s.logger.Error("folder tree has unreachable folders",
			"user_id", userID,
			"total", len(nodes),
			"reachable", reachable,
		)
	}
	return roots
}

func countNodes(roots []*models.FolderTreeNode) int {
	n := 0
	stack := append([]*models.FolderTreeNode(nil), roots...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, node.Children...)
	}
	return n
}
