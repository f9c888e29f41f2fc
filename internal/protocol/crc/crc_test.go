package crc

import "testing"

func TestModemChecksumKnownVectors(t *testing.T) {
	table := MakeTable(Modem)

	// Checksum of LEN+OPCODE+PAYLOAD for the ping frame AA55 01 01 22 DB 88.
	if got := table.Checksum([]byte{0x01, 0x01, 0x22}); got != 0x88DB {
		t.Fatalf("ping frame checksum: got 0x%04X want 0x88DB", got)
	}

	// Standard check input for this parameter set.
	if got := table.Checksum([]byte("123456789")); got != 0xAEE7 {
		t.Fatalf("check value: got 0x%04X want 0xAEE7", got)
	}
}

func TestChecksumEmptyInputIsInit(t *testing.T) {
	table := MakeTable(Modem)
	if got := table.Checksum(nil); got != 0xFFFF {
		t.Fatalf("empty checksum: got 0x%04X want 0xFFFF", got)
	}
}

func TestDigestMatchesOneShot(t *testing.T) {
	table := MakeTable(Modem)
	data := []byte{0x06, 0x03, 0x01, 0x10, 0x03, 0x10, 0x08, 0x10}

	d := table.New()
	for _, b := range data {
		if _, err := d.Write([]byte{b}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if d.Sum16() != table.Checksum(data) {
		t.Fatalf("digest 0x%04X != one-shot 0x%04X", d.Sum16(), table.Checksum(data))
	}
}

func TestSingleBitSensitivity(t *testing.T) {
	table := MakeTable(Modem)
	base := []byte{0x01, 0x01, 0x22}
	want := table.Checksum(base)

	for i := range base {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), base...)
			flipped[i] ^= 1 << bit
			if table.Checksum(flipped) == want {
				t.Fatalf("bit flip at byte %d bit %d not detected", i, bit)
			}
		}
	}
}
