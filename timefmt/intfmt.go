// Package timefmt provides the per-second time-prefix cache and a
// byte-level unsigned integer formatter used on the logging hot path.
package timefmt

// digitPairs holds the ASCII decimal digit pairs "00".."99" laid out
// contiguously so two digits can be copied with a single slice op.
const digitPairs = "00010203040506070809" +
	"10111213141516171819" +
	"20212223242526272829" +
	"30313233343536373839" +
	"40414243444546474849" +
	"50515253545556575859" +
	"60616263646566676869" +
	"70717273747576777879" +
	"80818283848586878889" +
	"90919293949596979899"

// AppendUint32 appends the shortest base-10 representation of n to dst and
// returns the extended slice. It never allocates beyond what append itself
// needs to grow dst, and produces no leading zeros; AppendUint32(dst, 0)
// appends "0".
func AppendUint32(dst []byte, n uint32) []byte {
	var buf [10]byte
	i := len(buf)
	for n >= 100 {
		i -= 2
		pos := (n % 100) * 2
		n /= 100
		buf[i] = digitPairs[pos]
		buf[i+1] = digitPairs[pos+1]
	}
	if n < 10 {
		i--
		buf[i] = '0' + byte(n)
	} else {
		i -= 2
		pos := n * 2
		buf[i] = digitPairs[pos]
		buf[i+1] = digitPairs[pos+1]
	}
	return append(dst, buf[i:]...)
}
