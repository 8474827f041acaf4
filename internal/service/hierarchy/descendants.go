package hierarchy

import (
	"context"
	"fmt"

	"linkhive/internal/domain/repositories"
)

// DescendantResolver expands a folder into the set of live folders below it
type DescendantResolver struct {
	folders repositories.FolderRepository
}

func NewDescendantResolver(folders repositories.FolderRepository) *DescendantResolver {
	return &DescendantResolver{folders: folders}
}

// Descendants walks ownerID's tree breadth-first from folderID, issuing one
// child query per level. The folder itself is never part of the result, even
// if corrupted data links back to it, and the visited set bounds the walk.
func (r *DescendantResolver) Descendants(ctx context.Context, folderID, ownerID string) (map[string]struct{}, error) {
	visited := map[string]struct{}{folderID: {}}
	result := make(map[string]struct{})

	frontier := []string{folderID}
	for depth := 0; len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		children, err := r.folders.ListChildIDs(ctx, ownerID, frontier)
		if err != nil {
			return nil, fmt.Errorf("resolve descendants of %s at depth %d: %w", folderID, depth, err)
		}

		var next []string
		for _, child := range children {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			result[child] = struct{}{}
			next = append(next, child)
		}
		frontier = next
	}

	return result, nil
}
