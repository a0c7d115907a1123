package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChannelRepository persists the auto-spawn opt-in set
type ChannelRepository struct {
	db *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Channels lists opted-in channel ids in ascending order
func (r *ChannelRepository) Channels(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, SQLSelectChannels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListChannels, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListChannels, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Enable opts a channel in. It reports false if it already was.
func (r *ChannelRepository) Enable(ctx context.Context, channelID string) (bool, error) {
	tag, err := r.db.Exec(ctx, SQLEnableChannel, channelID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToEnableChannel, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Disable opts a channel out. It reports false if it was not opted in.
func (r *ChannelRepository) Disable(ctx context.Context, channelID string) (bool, error) {
	tag, err := r.db.Exec(ctx, SQLDisableChannel, channelID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToDisableChannel, err)
	}
	return tag.RowsAffected() == 1, nil
}
