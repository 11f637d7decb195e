package codegen

// Prefix encodes i in base 26 with the letters a to z, most significant
// letter first. Prefix(0) is "a" and Prefix(26) is "ba".
func Prefix(i uint32) string {
	if i == 0 {
		return "a"
	}
	var buf [8]byte
	n := len(buf)
	for i != 0 {
		n--
		buf[n] = byte('a' + i%26)
		i /= 26
	}
	return string(buf[n:])
}
