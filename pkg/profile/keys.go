package profile

import (
	"golang.org/x/crypto/blake2b"
)

var hotPrefix = []byte("hot:")

// ProgramPrefix is the key prefix under which every method of a program is
// counted: "hot:" followed by the program's content hash.
func ProgramPrefix(program [32]byte) []byte {
	key := make([]byte, 0, len(hotPrefix)+32)
	key = append(key, hotPrefix...)
	return append(key, program[:]...)
}

// MethodKey is ProgramPrefix followed by the first 16 bytes of the
// blake2b-256 hash of the method's name (LFoo;->bar(I)V).
func MethodKey(program [32]byte, method string) []byte {
	h := blake2b.Sum256([]byte(method))
	return append(ProgramPrefix(program), h[:16]...)
}

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
