package model

import "github.com/eoscanada/eos-go/ecc"

// Account is one configured game account. The key is parsed once at startup
// and lives for the process lifetime; the WIF string itself is never kept.
type Account struct {
	Name string
	Key  *ecc.PrivateKey
}

// Keys returns the signing key set for this account.
func (a Account) Keys() []*ecc.PrivateKey {
	return []*ecc.PrivateKey{a.Key}
}
