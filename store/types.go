package store

import "github.com/iov-one/swapvault"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = swapvault.ReadOnlyKVStore
type SetDeleter = swapvault.SetDeleter
type KVStore = swapvault.KVStore
type Batch = swapvault.Batch
type CacheableKVStore = swapvault.CacheableKVStore
type KVCacheWrap = swapvault.KVCacheWrap
type CommitKVStore = swapvault.CommitKVStore
type CommitID = swapvault.CommitID
