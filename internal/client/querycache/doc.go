// Package querycache keeps read-through cached server state consistent
// after writes. It is the only place in the client allowed to store or drop
// query results; mutations never edit cached values in place.
//
// # Keys
//
// Cached state is addressed by a canonical Key, a (resource, deviceID)
// tuple over the four logical resources: the device list, one device's
// detail, one device's cached product catalog, and one device's auto-update
// settings. Device ids are numeric throughout; anything read from a prompt
// or a URL goes through scaleapi.ParseDeviceID before a key is built, so a
// string "7" and the number 7 can never address different cache slots.
//
// # Resolve And Invalidate
//
// Resolve returns the cached value for a key or runs the supplied fetch,
// remembering both the value and the fetch for later refreshes. After a
// mutation succeeds, the corresponding After* key group is passed to
// Invalidate, which re-runs the remembered fetch for every key in the group
// and only returns once all of them completed. Callers surface success to
// the user strictly after Invalidate returns, so a confirmed write is never
// followed by a stale read. A failed refresh leaves the entry marked
// invalid; the next Resolve fetches anew rather than serving the old value.
//
// Groups always widen from the narrow resource to device(id) and the device
// list, because list rows and the detail view carry summaries (such as the
// unpushed-edits flag) that the server updates as a side effect of narrow
// mutations.
//
// Remove drops entries without refetching; it exists for deleted devices,
// whose resources must vanish rather than refresh. Purge empties the cache
// entirely and is hooked to session clearing.
package querycache
