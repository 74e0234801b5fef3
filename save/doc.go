// Package save provides slot-based game save persistence backed by SQLite.
//
// A Store owns one save database inside a data directory. Slots are
// identified by name ("slot-1", "autosave"); payloads are JSON-encoded Go
// values supplied by the game. The directory is guarded by a file lock so a
// second game process cannot corrupt the database.
//
//	store, err := save.Open(cfg.SaveDir)
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.Save(ctx, "slot-1", progress); err != nil { ... }
//
//	var progress Progress
//	if err := store.Load(ctx, "slot-1", &progress); err != nil { ... }
package save
