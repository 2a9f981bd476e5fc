/*
Package projar provides CLI tooling to move projects between archives and
persistent project filesystems.

The primary goal of projar is to import ZIP, TAR and TAR.GZ archives into
per-project filesystems, whatever tool produced them, and to export those
filesystems back as archives.
*/
package projar
