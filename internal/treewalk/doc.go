// Package treewalk enumerates files beneath a directory in a stable lexical
// order, deleting known OS-artifact files on sight and yielding a snapshot
// of filesystem attributes (size, timestamps, owner, mode, inode, link
// count) per remaining file. Traversal never follows symbolic links, so it
// cannot recurse out of the subtree.
package treewalk
