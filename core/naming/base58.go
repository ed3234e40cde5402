package naming

import "encoding/binary"

// Base58 alphabet (Bitcoin-style, no 0/O/I/l ambiguity). Every character is
// valid in an identifier, so encoded digests can be used in type names.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// encodeBase58 encodes exactly 8 bytes (big-endian) as Base58.
func encodeBase58(data []byte) string {
	if len(data) != 8 {
		panic("encodeBase58 requires exactly 8 bytes")
	}

	num := binary.BigEndian.Uint64(data)
	var buf [11]byte // 58^11 > 2^64
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = base58Alphabet[num%58]
		num /= 58
	}

	// Each leading zero byte is written as '1'
	for _, b := range data {
		if b != 0 {
			break
		}
		i--
		buf[i] = '1'
	}
	return string(buf[i:])
}
