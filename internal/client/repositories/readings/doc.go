// Package readings is the local store of glucose readings.
//
// # Overview
//
// Repository describes the operations the reconciliation engine needs:
// newest-first listings (optionally per owner), lookups by id,
// replace-by-identity inserts, updates, deletes and the pending-record
// queries used by push sync. SQLiteRepository implements it over the
// client database opened by internal/client/client.InitDatabase.
//
// # Listings
//
// All and ByOwner return an iter.Seq2 that runs its query each time it is
// ranged over, so a listing can be restarted. The database pool holds a
// single connection; do not call back into the repository from inside the
// range loop. Use Collect when a slice is needed.
//
// # Errors
//
// Every driver failure is wrapped so that errors.Is(err, common.ErrLocalStorage)
// holds. ByID returns common.ErrNotFound for unknown ids.
package readings
