package core

import "fmt"

// checkCapacity fails with ErrCapacityExceeded if the warehouse cannot absorb additional units.
// w must have been read under LockWarehouse in the same transaction as the write that follows.
func checkCapacity(w *Warehouse, additional int) error {
	if w.CurrentCapacity+additional > w.MaxCapacity {
		return fmt.Errorf("%w: warehouse %d max %d, requested new capacity %d",
			ErrCapacityExceeded, w.ID, w.MaxCapacity, w.CurrentCapacity+additional)
	}
	return nil
}

// claimCapacity checks and then adds quantity to the warehouse's current capacity in memory.
func claimCapacity(w *Warehouse, quantity int) error {
	if err := checkCapacity(w, quantity); err != nil {
		return err
	}
	w.CurrentCapacity += quantity
	return nil
}

// releaseCapacity subtracts quantity from the warehouse's current capacity in memory.
// A negative result means the stored capacity no longer matches the stock and is reported
// as ErrInvariantViolation instead of being clamped.
func releaseCapacity(w *Warehouse, quantity int) error {
	next := w.CurrentCapacity - quantity
	if next < 0 {
		return fmt.Errorf("%w: warehouse %d capacity would become negative (%d - %d)",
			ErrInvariantViolation, w.ID, w.CurrentCapacity, quantity)
	}
	w.CurrentCapacity = next
	return nil
}
