package ledger

// Principal is an already-authenticated caller resolved by the access
// gate. The ledger core never sees credentials, only this pair.
type Principal struct {
	AccountID uint64
	IsAdmin   bool
}

// Owns reports whether the principal may act on resources belonging to
// accountID. Admins may act on anyone's.
func (p Principal) Owns(accountID uint64) bool {
	return p.IsAdmin || p.AccountID == accountID
}
