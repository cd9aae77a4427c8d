package userstore

// Backend persists the whole record set at once. The store is small (a
// personal bot), so whole-store writes keep both backends trivially
// consistent with the in-memory map.
type Backend interface {
	Load() (map[int64]*Record, error)
	Save(map[int64]*Record) error
}
