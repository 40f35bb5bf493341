package cpu

const (
	MEMORY_SIZE = 4096 // Size of the memory image, in bytes.
)

// Memory is the flat, byte addressed memory image.
type Memory [MEMORY_SIZE]byte

// Fetch reads the big-endian instruction word at addr.
func (mem *Memory) Fetch(addr uint16) (code Code, err error) {
	if int(addr) > len(mem)-2 {
		err = ErrMemoryBounds
		return
	}

	code = Code(mem[addr])<<8 | Code(mem[addr+1])
	return
}

// Poke writes an instruction word at addr.
func (mem *Memory) Poke(addr uint16, code Code) (err error) {
	return mem.Load(addr, []byte{byte(code >> 8), byte(code)})
}

// Load copies data into the image starting at addr.
// Nothing is written if the data would not fit.
func (mem *Memory) Load(addr uint16, data []byte) (err error) {
	if int(addr)+len(data) > len(mem) {
		err = ErrMemoryBounds
		return
	}

	copy(mem[addr:], data)
	return
}
