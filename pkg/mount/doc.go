/*
Package mount manages the lifecycle of per-project filesystems.

Each project is backed by a persistent store, registered with a Backend under
a name derived from the project identifier. The Manager mounts a project lazily
on first use and hands out a Handle shared by every caller working on that
project.

Transitions of a project follow:

	Unmounted -> Mounting -> Mounted -> Unmounted

Concurrent mounts of the same project share a single backend registration.
Mounts of different projects proceed independently.
*/
package mount
