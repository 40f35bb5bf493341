package cpu

const (
	REGISTER_COUNT = 16 // Number of general-purpose registers.
)

// Registers is the general-purpose register bank, v0 through vf.
type Registers [REGISTER_COUNT]uint8

// Get returns the value of a register.
func (r *Registers) Get(reg CodeReg) (value uint8, err error) {
	if !reg.Valid() {
		err = ErrRegisterInvalid
		return
	}

	value = r[reg]
	return
}

// Set stores a value into a register.
func (r *Registers) Set(reg CodeReg, value uint8) (err error) {
	if !reg.Valid() {
		err = ErrRegisterInvalid
		return
	}

	r[reg] = value
	return
}
