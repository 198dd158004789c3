package hierarchy

import (
	"errors"
	"fmt"

	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/permissions"
	"github.com/perfhub/performance-hub-api/internal/repository"
)

var (
	// ErrForbiddenRoot is returned when a non-admin requests a hierarchy root
	// other than their own team member.
	ErrForbiddenRoot = errors.New("requested hierarchy root is outside the caller's scope")
	// ErrRootNotFound is returned when the requested root does not exist.
	ErrRootNotFound = errors.New("hierarchy root not found")
)

// Node is a team member with its direct reports embedded recursively.
type Node struct {
	models.TeamMember
	DirectReports []*Node `json:"direct_reports"`
}

// Resolver materializes org-chart subtrees and guards hierarchy writes
// against cycles. Trees are built from an id-keyed arena of nodes loaded in
// one scan, not by chasing live ORM back-references.
type Resolver struct {
	members repository.TeamMemberRepository
}

func NewResolver(members repository.TeamMemberRepository) *Resolver {
	return &Resolver{members: members}
}

// ResolveRoot narrows the requested root to what the principal may see.
// Admins use the requested root as given (nil meaning "all top-level roots");
// everyone else may only look at their own subtree, defaulting to it when no
// root is requested.
func (r *Resolver) ResolveRoot(p permissions.Principal, requested *uint64) (*uint64, error) {
	if p.IsAdmin() {
		return requested, nil
	}

	memberID, ok := p.MemberID()
	if !ok {
		return nil, ErrForbiddenRoot
	}
	if requested != nil && *requested != memberID {
		return nil, ErrForbiddenRoot
	}
	return &memberID, nil
}

// Tree returns the subtree rooted at rootID, or every top-level root when
// rootID is nil. Inactive members (and therefore their subtrees) are skipped
// unless includeInactive is set; an explicitly requested root is always
// included. The caller is expected to have narrowed rootID via ResolveRoot.
func (r *Resolver) Tree(rootID *uint64, includeInactive bool) ([]*Node, error) {
	members, err := r.members.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}

	arena := make(map[uint64]*Node, len(members))
	children := make(map[uint64][]uint64)
	for i := range members {
		m := members[i]
		arena[m.ID] = &Node{TeamMember: m, DirectReports: []*Node{}}
		if m.SuperiorID != nil {
			children[*m.SuperiorID] = append(children[*m.SuperiorID], m.ID)
		}
	}

	var roots []*Node
	if rootID != nil {
		root, ok := arena[*rootID]
		if !ok {
			return nil, ErrRootNotFound
		}
		roots = []*Node{root}
	} else {
		for i := range members {
			m := members[i]
			if m.SuperiorID != nil {
				continue
			}
			if !m.IsActive && !includeInactive {
				continue
			}
			roots = append(roots, arena[m.ID])
		}
	}

	// Iterative expansion; the write-time cycle check keeps the forest
	// acyclic, the visited set terminates the walk even on corrupt links.
	visited := make(map[uint64]bool, len(arena))
	queue := make([]*Node, 0, len(roots))
	for _, root := range roots {
		visited[root.ID] = true
		queue = append(queue, root)
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, childID := range children[node.ID] {
			child := arena[childID]
			if visited[childID] {
				continue
			}
			if !child.IsActive && !includeInactive {
				continue
			}
			visited[childID] = true
			node.DirectReports = append(node.DirectReports, child)
			queue = append(queue, child)
		}
	}

	if roots == nil {
		roots = []*Node{}
	}
	return roots, nil
}

// WouldCreateCycle reports whether assigning superiorID as memberID's
// superior would make the member its own transitive superior, i.e. whether
// the proposed superior sits in the member's descendant subtree.
func (r *Resolver) WouldCreateCycle(memberID, superiorID uint64) (bool, error) {
	if memberID == superiorID {
		return true, nil
	}

	members, err := r.members.FindAll()
	if err != nil {
		return false, fmt.Errorf("failed to load team members: %w", err)
	}

	children := make(map[uint64][]uint64)
	for _, m := range members {
		if m.SuperiorID != nil {
			children[*m.SuperiorID] = append(children[*m.SuperiorID], m.ID)
		}
	}

	seen := map[uint64]bool{memberID: true}
	stack := []uint64{memberID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, childID := range children[id] {
			if childID == superiorID {
				return true, nil
			}
			if !seen[childID] {
				seen[childID] = true
				stack = append(stack, childID)
			}
		}
	}

	return false, nil
}

// DirectReportIDs returns the ids of a member's direct reports, used for
// scope-narrowing list queries.
func (r *Resolver) DirectReportIDs(memberID uint64) ([]uint64, error) {
	reports, _, err := r.members.List(repository.TeamMemberFilter{
		SuperiorID:      &memberID,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load direct reports: %w", err)
	}

	ids := make([]uint64, 0, len(reports))
	for _, m := range reports {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
