// Package tl2stm implements a word-based software transactional memory
// runtime patterned after TL2 (Transactional Locking II). It lets
// goroutines group loads and stores to shared memory locations into
// atomic, isolated, serializable transactions without caller-managed
// per-location locking.
//
// The runtime is built from four pieces: a monotonic global version
// clock (gvc.go), a striped versioned-lock table (vlt.go), per-
// transaction read/write logs (tlog.go, bloom.go), and the transaction
// state machine that ties them together (txn.go).
//
// A transaction either commits, making all of its writes visible as a
// single instant, or aborts and is retried by the caller:
//
//	core := tl2stm.NewCore()
//	defer core.Shutdown()
//
//	var balance int
//	err := core.Atomically(func(tx *tl2stm.Tx) error {
//		v, err := tl2stm.ReadVar(tx, &balance)
//		if err != nil {
//			return err
//		}
//		tl2stm.WriteVar(tx, &balance, v+10)
//		return nil
//	})
//
// Addresses are pointer-identity: the location a transaction reads or
// writes must outlive the transaction, and the same *T read twice
// within one transaction returns the transaction's own buffered write
// if one was made (read-your-own-writes).
//
// There is no nesting, no irrevocable in-transaction actions, and no
// wait- or lock-freedom guarantee beyond retry; see the package-level
// tests for the properties the protocol does guarantee.
package tl2stm
