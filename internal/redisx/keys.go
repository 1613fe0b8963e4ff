package redisx

import "time"

const (
	// Per-transaction mutual exclusion while an Approved event is being
	// reconciled: lock:tx:{transaction_id} -> 1
	KeyTxLock = "lock:tx:%s"

	// Cache of settings-store reads: setting:{key} -> value
	KeySetting = "setting:%s"
)

var (
	TTLTxLock  = 30 * time.Second
	TTLSetting = 30 * time.Second
)
