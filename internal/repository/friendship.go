package repository

import (
	"context"
	"fmt"
)

// GetAcceptedFriendIDs returns the ids of every user with an accepted
// friendship with userID, whichever side sent the request.
func (r *Repository) GetAcceptedFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `
		SELECT CASE WHEN requester_id = $1 THEN recipient_id ELSE requester_id END
		FROM friendships
		WHERE status = 'accepted' AND (requester_id = $1 OR recipient_id = $1)`

	var friendIDs []int64
	if err := r.db.SelectContext(ctx, &friendIDs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get accepted friends: %w", err)
	}

	return friendIDs, nil
}
