package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// TTLCompanyMetadata covers static company info (name, sector, exchange)
	TTLCompanyMetadata = 30 * 24 * time.Hour
)
