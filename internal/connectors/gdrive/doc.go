// Package gdrive indexes files from a Google Drive account. It
// provides two kinds: "gdrive_file" (file metadata only) and
// "gdrive_doc" (a specialization restricted to exportable documents,
// with their plain-text content indexed).
package gdrive
