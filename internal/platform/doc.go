package platform

// Package platform contains OS-level helpers: resolving well-known
// directories, revealing files in the system file manager, and sanitizing
// file names before saving downloads.
