// Package crc implements the 16-bit cyclic redundancy check used by the
// modem wire protocol. Parameters are configuration, not literals, so a
// device variant with a different polynomial stays a config change.
package crc

// Params selects a CRC-16 variant. Bits are processed MSB-first without
// reflection, which matches the modem firmware.
type Params struct {
	Poly   uint16
	Init   uint16
	XorOut uint16
}

// Modem is the parameter set spoken by the mesh modem firmware
// (poly 0x8005, init 0xFFFF, no final xor).
var Modem = Params{Poly: 0x8005, Init: 0xFFFF, XorOut: 0x0000}

// Table is a precomputed lookup table for one parameter set.
type Table struct {
	params  Params
	entries [256]uint16
}

// MakeTable builds the lookup table for p.
func MakeTable(p Params) *Table {
	t := &Table{params: p}
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ p.Poly
			} else {
				crc <<= 1
			}
		}
		t.entries[i] = crc
	}
	return t
}

// Update feeds data into a running checksum value.
func (t *Table) Update(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = crc<<8 ^ t.entries[byte(crc>>8)^b]
	}
	return crc
}

// Checksum computes the CRC of data in one call.
func (t *Table) Checksum(data []byte) uint16 {
	return t.Update(t.params.Init, data) ^ t.params.XorOut
}

// Digest accumulates a checksum over incremental writes.
type Digest struct {
	table *Table
	crc   uint16
}

// New returns a Digest primed with the table's init value.
func (t *Table) New() *Digest {
	return &Digest{table: t, crc: t.params.Init}
}

func (d *Digest) Write(p []byte) (int, error) {
	d.crc = d.table.Update(d.crc, p)
	return len(p), nil
}

// Sum16 returns the checksum of everything written so far.
func (d *Digest) Sum16() uint16 {
	return d.crc ^ d.table.params.XorOut
}
