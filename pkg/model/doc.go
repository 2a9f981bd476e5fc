// Package model describes the base objects manipulated by projar.
//
// The object model for projar is composed of:
//
//  Packages:
//    A package is the in-memory, format-agnostic content of a project archive:
//    an ordered list of directories and a map of file contents keyed by path.
//    Packages are transient: they are built by extraction and consumed right away
//    when materialized into a project filesystem, or when serialized into an archive.
//
//  Archive formats:
//    ZIP, TAR and gzip-compressed TAR. A format is always sniffed from content, never
//    inferred from a file name.
//
//  Project types:
//    A project is either a visual (block-based) project or a code (text-based) project.
//    The type is derived from package content each time a package is imported.
package model
