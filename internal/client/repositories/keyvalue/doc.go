// Package keyvalue is the persisted key/value store backing the credential
// record ("token", "isAuth").
//
// SQLiteRepository stores values in the "keyvalue" table created by the
// client migrations. MultiSet and MultiRemove run in one transaction, so the
// credential keys are always written and removed together.
//
// SealedRepository wraps any Repository and encrypts values at rest with a
// key derived from a device secret (see package cryptox).
package keyvalue
