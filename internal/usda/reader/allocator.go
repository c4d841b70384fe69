package reader

// assignStageIndex implements the PrimIndexAllocator of §4.2 for
// Toplevel reads: the fresh index equals the PrimNode store's current
// size, and the store grows by one nil (not-yet-constructed) slot so
// children can record parent pointers before the parent's own callback
// fires.
func (r *Reader) assignStageIndex(_ int) int {
	idx := len(r.nodes)
	r.nodes = append(r.nodes, nil)
	return idx
}

// assignSpecIndex is the PrimSpec-store counterpart, used for
// non-Toplevel reads (§4.5, §4.8).
func (r *Reader) assignSpecIndex(_ int) int {
	idx := len(r.specNodes)
	r.specNodes = append(r.specNodes, nil)
	return idx
}
