// Package cache implements the on-disk, content-addressed store behind
// stage execution. Each stage owns a sub-directory of the cache root;
// each entry is two sibling files keyed by the hex fingerprint: the
// transformed payload (<hex>.bin) and the side-channel string
// (<hex>.meta).
//
// Writes publish atomically via temp-file-and-rename, and a second writer
// producing the same fingerprint is harmless. Reconcile deletes entries
// not touched during the current execution. It assumes a single process
// per cache root per run; reconciling while another process reads the
// same stage directory can delete entries under it.
package cache
