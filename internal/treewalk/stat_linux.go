//go:build linux

package treewalk

import (
	"time"

	"golang.org/x/sys/unix"
)

// statEntry fills raw attributes via lstat so symbolic links are described,
// never followed.
func statEntry(path string, e *Entry) error {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return err
	}
	e.Size = st.Size
	e.Mode = uint32(st.Mode)
	e.Inode = st.Ino
	e.Device = uint64(st.Dev)
	e.Nlink = uint64(st.Nlink)
	e.UID = st.Uid
	e.GID = st.Gid
	e.CTime = time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	e.MTime = time.Unix(int64(st.Mtim.Sec), int64(st.Mtim.Nsec))
	e.ATime = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	return nil
}
