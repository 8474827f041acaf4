package hierarchy

import (
	"context"
)

// CycleGuard rejects moves that would place a folder inside its own subtree
type CycleGuard struct {
	resolver *DescendantResolver
}

func NewCycleGuard(resolver *DescendantResolver) *CycleGuard {
	return &CycleGuard{resolver: resolver}
}

// WouldCreateCycle reports whether re-parenting folderID under newParentID
// breaks the forest. Moving to root (nil) never does.
func (g *CycleGuard) WouldCreateCycle(ctx context.Context, folderID string, newParentID *string, ownerID string) (bool, error) {
	if newParentID == nil {
		return false, nil
	}
	if *newParentID == folderID {
		return true, nil
	}

	descendants, err := g.resolver.Descendants(ctx, folderID, ownerID)
	if err != nil {
		return false, err
	}
	_, inside := descendants[*newParentID]
	return inside, nil
}
