package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeCheckViolation is the PostgreSQL error code for CHECK constraint violations
	PgErrorCodeCheckViolation = "23514"
	// PgErrorCodeForeignKeyViolation is the PostgreSQL error code for foreign key violations
	PgErrorCodeForeignKeyViolation = "23503"
)

// DefaultLeaderboardLimit caps a leaderboard when the caller passes no limit
const DefaultLeaderboardLimit = 10

// =============================================================================
// SQL Query Constants
// =============================================================================

const cardColumns = "card_id, card_number, group_name, member_name, era, rarity, image_path, series"

// Catalog queries
const (
	SQLSelectCardsOfTier = `SELECT ` + cardColumns + ` FROM cards WHERE rarity = $1 ORDER BY card_id`
	SQLSelectCardByID    = `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1`
	SQLSelectAllCards    = `SELECT ` + cardColumns + ` FROM cards ORDER BY card_id`
	SQLCountByTier       = `SELECT rarity, COUNT(*) FROM cards GROUP BY rarity`
	SQLUpsertCard        = `
		INSERT INTO cards (card_number, group_name, member_name, era, rarity, image_path, series)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (card_number) DO UPDATE SET
			group_name = EXCLUDED.group_name,
			member_name = EXCLUDED.member_name,
			era = EXCLUDED.era,
			rarity = EXCLUDED.rarity,
			image_path = EXCLUDED.image_path,
			series = EXCLUDED.series
	`
)

// Economy queries
const (
	SQLEnsureUser    = `INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	SQLSelectBalance = `SELECT coins FROM users WHERE user_id = $1`
	SQLCreditUser    = `
		INSERT INTO users (user_id, coins) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET coins = users.coins + EXCLUDED.coins
		RETURNING coins
	`
	SQLDebitUser = `
		UPDATE users SET coins = coins - $2
		WHERE user_id = $1 AND coins >= $2
		RETURNING coins
	`
	SQLInsertOwnership = `
		INSERT INTO user_cards (user_id, card_id, card_serial, obtained_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	SQLIncrementDrops = `UPDATE users SET drops_count = drops_count + 1 WHERE user_id = $1`
	SQLDeleteOneCopy  = `
		DELETE FROM user_cards WHERE id = (
			SELECT id FROM user_cards
			WHERE user_id = $1 AND card_id = $2
			ORDER BY obtained_at DESC, id DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`

	// SQLTransferOneCopy hands the sender's newest copy to the recipient,
	// keeping its serial
	SQLTransferOneCopy = `
		UPDATE user_cards SET user_id = $3, obtained_at = $4
		WHERE id = (
			SELECT id FROM user_cards
			WHERE user_id = $1 AND card_id = $2
			ORDER BY obtained_at DESC, id DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, card_serial
	`

	SQLCountOwnedCopies = `SELECT COUNT(*) FROM user_cards WHERE user_id = $1 AND card_id = $2`

	SQLSelectInventoryTotals = `
		SELECT u.coins, u.drops_count, COUNT(uc.id), COUNT(DISTINCT uc.card_id)
		FROM users u
		LEFT JOIN user_cards uc ON uc.user_id = u.user_id
		WHERE u.user_id = $1
		GROUP BY u.user_id
	`
)

// Channel queries
const (
	SQLSelectChannels = `SELECT channel_id FROM autospawn_channels ORDER BY channel_id`
	SQLEnableChannel  = `INSERT INTO autospawn_channels (channel_id) VALUES ($1) ON CONFLICT (channel_id) DO NOTHING`
	SQLDisableChannel = `DELETE FROM autospawn_channels WHERE channel_id = $1`
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Catalog Operations
const (
	ErrMsgFailedToQueryCards  = "failed to query cards"
	ErrMsgFailedToScanCard    = "failed to scan card"
	ErrMsgFailedToGetCard     = "failed to get card"
	ErrMsgFailedToCountTiers  = "failed to count cards by tier"
	ErrMsgFailedToUpsertCards = "failed to upsert cards"
)

// Error Messages - Economy Operations
const (
	ErrMsgFailedToEnsureUser      = "failed to ensure user"
	ErrMsgFailedToGetBalance      = "failed to get balance"
	ErrMsgFailedToCredit          = "failed to credit user"
	ErrMsgFailedToDebit           = "failed to debit user"
	ErrMsgFailedToInsertOwnership = "failed to insert ownership"
	ErrMsgFailedToIncrementDrops  = "failed to increment drops count"
	ErrMsgFailedToRemoveCopy      = "failed to remove owned copy"
	ErrMsgFailedToBuildQuery      = "failed to build query"
	ErrMsgFailedToQueryLeaders    = "failed to query leaderboard"
	ErrMsgFailedToQueryCollection = "failed to query collection"
	ErrMsgFailedToTransferCopy    = "failed to transfer owned copy"
	ErrMsgFailedToCountCopies     = "failed to count owned copies"
	ErrMsgFailedToQueryInventory  = "failed to query inventory"
)

// Error Messages - Channel Operations
const (
	ErrMsgFailedToListChannels   = "failed to list auto-spawn channels"
	ErrMsgFailedToEnableChannel  = "failed to enable auto-spawn channel"
	ErrMsgFailedToDisableChannel = "failed to disable auto-spawn channel"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
	LogMsgCardsUpserted    = "Catalog cards upserted"
	LogMsgClaimCommitted   = "Claim committed"
	LogMsgPackPurchased    = "Pack purchase committed"
	LogMsgCardTransferred  = "Card transferred"
)
