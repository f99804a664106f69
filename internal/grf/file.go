package grf

import "fmt"

// InvalidID marks a file without a GRF id.
const InvalidID uint32 = 0xFFFFFFFF

// File is the read-only view of a loaded mod file used during resolution.
type File struct {
	ID     uint32
	Name   string
	Params []uint32
}

// GetParam returns parameter n, or 0 when the file does not define it.
func (f *File) GetParam(n uint32) uint32 {
	if f == nil || uint64(n) >= uint64(len(f.Params)) {
		return 0
	}
	return f.Params[n]
}

// String renders the id the way mod files are usually referred to, e.g. "4D4C0101".
func (f *File) String() string {
	if f == nil {
		return "<none>"
	}
	if f.Name != "" {
		return fmt.Sprintf("%08X (%s)", f.ID, f.Name)
	}
	return fmt.Sprintf("%08X", f.ID)
}
