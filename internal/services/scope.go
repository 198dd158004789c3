package services

import (
	"fmt"

	"github.com/perfhub/performance-hub-api/internal/hierarchy"
	"github.com/perfhub/performance-hub-api/internal/permissions"
)

// scopedMemberIDs narrows a list query to the members the principal may see:
// nil for admins (no restriction), otherwise self plus direct reports. An
// empty non-nil slice means the principal sees nothing.
func scopedMemberIDs(p permissions.Principal, resolver *hierarchy.Resolver) ([]uint64, error) {
	if p.IsAdmin() {
		return nil, nil
	}

	memberID, ok := p.MemberID()
	if !ok {
		return []uint64{}, nil
	}

	reportIDs, err := resolver.DirectReportIDs(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scope: %w", err)
	}

	return append([]uint64{memberID}, reportIDs...), nil
}

// containsID reports whether id is in the scope set.
func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
