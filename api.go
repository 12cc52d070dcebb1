package tl2stm

import "unsafe"

// ReadVar is typed sugar over Tx.Read for callers who have a *T
// instead of a raw unsafe.Pointer and byte count. It reads no more and
// no less than Tx.Read does; T's own storage remains the only
// representation of the value, so this is not a "representation for
// transactable data" in the sense the core stays agnostic to — it is
// purely a call-site convenience.
func ReadVar[T any](tx *Tx, src *T) (T, error) {
	var out T
	err := tx.Read(unsafe.Pointer(&out), unsafe.Pointer(src), unsafe.Sizeof(out))
	return out, err
}

// WriteVar is typed sugar over Tx.Write for callers who have a *T.
func WriteVar[T any](tx *Tx, dst *T, v T) {
	tx.Write(unsafe.Pointer(dst), unsafe.Pointer(&v), unsafe.Sizeof(v))
}
