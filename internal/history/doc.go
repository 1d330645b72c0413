// Package history records probe outcomes into per-site timelines and rolls
// those timelines up into fixed-width buckets for display.
//
// A timeline is stored as one value per site and rewritten on every probe:
// read, prepend, prune to the retention window, write back. The cycle is not
// transactional, so two overlapping recordings for the same site can lose
// one record; the last writer wins. Storage faults never reach callers.
package history
