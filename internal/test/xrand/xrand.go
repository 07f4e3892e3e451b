package xrand

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Bytes generates random bytes with length n.
func Bytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Reader.Read(b)
	if err != nil {
		panic(fmt.Sprintf("failed to generate rand bytes: %v", err))
	}
	return b
}

// String generates a random string with length n.
func String(n int) string {
	s := strings.ToValidUTF8(string(Bytes(n)), "_")
	s = strings.ReplaceAll(s, "\x00", "_")
	if len(s) > n {
		return s[:n]
	}
	if len(s) < n {
		// Pad with =
		extra := n - len(s)
		return s + strings.Repeat("=", extra)
	}
	return s
}

// Bool returns a randomly generated boolean.
func Bool() bool {
	return Int(2) == 1
}

// Int returns a randomly generated integer between [0, max).
func Int(max int) int {
	x, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(fmt.Sprintf("failed to get random int: %v", err))
	}
	return int(x.Int64())
}

// Uint32 returns a randomly generated uint32.
func Uint32() uint32 {
	b := Bytes(4)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// maxCuts bounds the number of chunks Split returns.
const maxCuts = 64

// Split cuts b into at most maxCuts+1 consecutive non empty chunks
// at random points.
func Split(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}

	cuts := map[int]struct{}{}
	for i, n := 0, Int(min(len(b), maxCuts)); i < n; i++ {
		cuts[1+Int(len(b))] = struct{}{}
	}
	points := make([]int, 0, len(cuts)+1)
	for p := range cuts {
		if p < len(b) {
			points = append(points, p)
		}
	}
	sort.Ints(points)
	points = append(points, len(b))

	var chunks [][]byte
	prev := 0
	for _, p := range points {
		chunks = append(chunks, b[prev:p])
		prev = p
	}
	return chunks
}
