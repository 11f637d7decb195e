// Package codegen turns compiled stages into generated source artifacts and
// caches them on disk.
//
// Each stage with a generator produces text that is written to
// <root>/<asset path without extension>/Temp_<prefix>_<index>.<compute|shader>.
// Files are read back before writing: when the text did not change and an
// artifact for the same path and kind is already held by the caller, that
// artifact is returned as is, so downstream consumers see no new reference.
package codegen
