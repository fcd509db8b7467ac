package sql

import "database/sql"

// NewPreferenceRepositoryWithTx builds a repository bound to a transaction.
func NewPreferenceRepositoryWithTx(tx *sql.Tx) *PreferenceRepository {
	return &PreferenceRepository{db: tx}
}
