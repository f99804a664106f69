package spritegroup

// TempStoreSize is the number of temporary registers.
const TempStoreSize = 0x110

// TempStore is the register file shared by every resolution of a session.
// It is never cleared by the resolver; callers decide when to Clear it.
type TempStore struct {
	regs [TempStoreSize]int32
}

// NewTempStore returns a zeroed register file.
func NewTempStore() *TempStore { return &TempStore{} }

// GetRegister reads register i; out of range registers read as 0.
func (t *TempStore) GetRegister(i uint32) int32 {
	if i >= TempStoreSize {
		return 0
	}
	return t.regs[i]
}

// SetRegister writes register i; out of range writes are ignored.
func (t *TempStore) SetRegister(i uint32, v int32) {
	if i >= TempStoreSize {
		return
	}
	t.regs[i] = v
}

// Clear zeroes every register.
func (t *TempStore) Clear() {
	t.regs = [TempStoreSize]int32{}
}
