// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

// mutf8Compare orders MUTF-8 strings bytewise, except that the encoded NUL
// (C0 80) sorts after the end of a string and before every other byte.
func mutf8Compare(a, b string) int {
	i, j := 0, 0
	for {
		sa, na := mutf8Symbol(a, i)
		sb, nb := mutf8Symbol(b, j)
		if sa != sb {
			if sa < sb {
				return -1
			}
			return 1
		}
		if sa == 0 {
			return 0
		}
		i += na
		j += nb
	}
}

// mutf8Symbol returns the sort key at s[i] and the bytes it spans.
// The end of the string is 0 and the encoded NUL is 1.
func mutf8Symbol(s string, i int) (int, int) {
	if i >= len(s) {
		return 0, 0
	}
	if s[i] == 0xc0 && i+1 < len(s) && s[i+1] == 0x80 {
		return 1, 2
	}

	return int(s[i]) + 2, 1
}

// mutf8Length returns the number of UTF-16 code units encoded by s,
// or false if s is not valid MUTF-8.
func mutf8Length(s string) (uint32, bool) {
	var n uint32
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == 0:
			return 0, false
		case c < 0x80:
			i++
		case c&0xe0 == 0xc0:
			if i+1 >= len(s) || s[i+1]&0xc0 != 0x80 {
				return 0, false
			}
			i += 2
		case c&0xf0 == 0xe0:
			if i+2 >= len(s) || s[i+1]&0xc0 != 0x80 || s[i+2]&0xc0 != 0x80 {
				return 0, false
			}
			i += 3
		default:
			return 0, false
		}
		n++
	}

	return n, true
}

// isClassDescriptor reports whether desc names a reference type, e.g. "Lfoo/Bar;".
func isClassDescriptor(desc string) bool {
	return len(desc) >= 3 && desc[0] == 'L' && desc[len(desc)-1] == ';'
}

// classPath converts "Lcom/example/Foo;" into "com/example/Foo".
// Other descriptors are returned unchanged.
func classPath(desc string) string {
	if !isClassDescriptor(desc) {
		return desc
	}

	return desc[1 : len(desc)-1]
}
