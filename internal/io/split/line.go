package split

// Line is one decoded text span, without its trailing delimiter.
//
// A Line is a reused view: Bytes points into a buffer the splitter recycles
// as soon as the next line is produced, so a consumer needing the value past
// the next call to Next must take a Copy.
type Line struct {
	b []byte
}

// Bytes returns the UTF-8 bytes of the line. Valid only until the next call
// to Next on the producing splitter.
func (l Line) Bytes() []byte {
	return l.b
}

// String returns the line as an owned string.
func (l Line) String() string {
	return string(l.b)
}

// Copy returns the line bytes as an owned slice valid indefinitely.
func (l Line) Copy() []byte {
	return append([]byte(nil), l.b...)
}

// Len returns the line length in bytes.
func (l Line) Len() int {
	return len(l.b)
}
