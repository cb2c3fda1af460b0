/*
Package hostfs binds the tree engine to the local disk.

It provides:
  - OS: the treeops.FileSystem primitives plus single-file operations
  - ZipArchiver and TarArchiver (none, gzip, zstd) for treeops.Archiver
  - Text decoding with charset detection
  - Path helpers, MIME detection, tree summaries and glob search

Directories are created with 0755 and files with 0644 unless the OS
value is configured otherwise. Symbolic links are treated as leaves.
*/
package hostfs
