package models

import "time"

// EbayAccount is one connected eBay seller account used by the multi-account
// order backfill. Tokens are refreshed per-request by the eBay client.
type EbayAccount struct {
	ID           int       `json:"id"`
	AccountName  string    `json:"account_name"`
	RefreshToken string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// SyncStats aggregates counters for one marketplace sync run.
type SyncStats struct {
	Scanned   int      `json:"scanned"`
	Matched   int      `json:"matched"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Unmatched int      `json:"unmatched"`
	Errors    []string `json:"errors,omitempty"`
}

// AccountSyncResult is the per-account breakdown of a backfill run.
type AccountSyncResult struct {
	AccountName string `json:"accountName"`
	SyncStats
}

// IntegrityResult reports the strictly serial integrity run. Steps after the
// first failure are not attempted.
type IntegrityResult struct {
	RunID          string                `json:"runId"`
	EbayBackfill   *SyncStats            `json:"ebayBackfill,omitempty"`
	ShipStation    *SyncStats            `json:"shipstation,omitempty"`
	ExceptionSweep *ExceptionSweepResult `json:"exceptionSweep,omitempty"`
	FailedStep     string                `json:"failedStep,omitempty"`
	Error          string                `json:"error,omitempty"`
}
