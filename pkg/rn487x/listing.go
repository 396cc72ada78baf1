package rn487x

import (
	"bytes"
	"fmt"
)

// ListingLayout locates the fields of a characteristic record in the "LS"
// listing once noise bytes are dropped. A record is
// <uuid>,<handle>,<property>. A zero HandleOffset locates the fields after
// the first comma of each record.
type ListingLayout struct {
	HandleOffset   int
	HandleDigits   int
	PropertyOffset int
	PropertyDigits int
}

// ListingLayoutFor is the layout of records whose UUIDs have digits digits.
func ListingLayoutFor(digits int) ListingLayout {
	return ListingLayout{
		HandleOffset:   digits + 1,
		HandleDigits:   4,
		PropertyOffset: digits + 1 + 5,
		PropertyDigits: 2,
	}
}

var (
	// DefaultListingLayout matches records of 128-bit characteristics.
	DefaultListingLayout = ListingLayoutFor(PrivateUUIDLen)
	// ShortListingLayout matches records of 16-bit characteristics.
	ShortListingLayout = ListingLayoutFor(PublicUUIDLen)
	// AutoListingLayout accepts records of any UUID length.
	AutoListingLayout = ListingLayout{HandleDigits: 4, PropertyDigits: 2}
)

// ParseListingLayout parses a layout name: 128, 16 or auto.
func ParseListingLayout(name string) (ListingLayout, error) {
	switch name {
	case "128", "":
		return DefaultListingLayout, nil
	case "16":
		return ShortListingLayout, nil
	case "auto":
		return AutoListingLayout, nil
	}
	return ListingLayout{}, fmt.Errorf("unknown listing layout %q", name)
}

// Auto reports whether fields are located by the first comma.
func (l ListingLayout) Auto() bool {
	return l.HandleOffset == 0
}

// Accepts reports whether records of characteristics with UUIDs of digits
// digits can be parsed.
func (l ListingLayout) Accepts(digits int) bool {
	return l.Auto() || l.HandleOffset == digits+1
}

// MinRecordLen is the shortest record carrying both fields.
func (l ListingLayout) MinRecordLen() int {
	n := l.PropertyOffset + l.PropertyDigits
	if h := l.HandleOffset + l.HandleDigits; h > n {
		n = h
	}
	return n
}

// Listed reports whether characteristics with props appear as handle
// records in the listing. Notify and indicate characteristics do not.
func Listed(props Property) bool {
	return props&(PropertyIndicate|PropertyNotify) == 0
}

// RecordKind classifies a parsed listing line.
type RecordKind int

// Listing record kinds.
const (
	// RecordNone means the line is not complete yet.
	RecordNone RecordKind = iota
	// RecordShort is a line too short to hold a handle, e.g. a service UUID.
	RecordShort
	// RecordSkipped is a notify or indicate characteristic.
	RecordSkipped
	// RecordHandle carries a characteristic handle.
	RecordHandle
	// RecordEnd is the END token.
	RecordEnd
)

// Record is the result of one parsing step.
type Record struct {
	Kind     RecordKind
	Handle   uint16
	Property Property
}

type listingState int

const (
	stateRecord listingState = iota // accumulating a record
	stateDone                       // END seen
)

var endToken = []byte(tokenEnd)

// ListingParser parses the characteristic listing byte by byte. Only hex
// digits, commas and the letters of END are kept. Anything else, including
// spaces and LF, is dropped.
type ListingParser struct {
	Layout ListingLayout

	state listingState
	buf   []byte
	limit int
}

// NewListingParser creates a parser using buf as scratch space. Records
// longer than cap(buf) are cut.
func NewListingParser(layout ListingLayout, buf []byte) *ListingParser {
	return &ListingParser{Layout: layout, buf: buf[:0], limit: cap(buf)}
}

// Done reports whether END has been seen.
func (p *ListingParser) Done() bool {
	return p.state == stateDone
}

// Reset prepares the parser for a new listing.
func (p *ListingParser) Reset() {
	p.state = stateRecord
	p.buf = p.buf[:0]
}

// Parse consumes one byte.
func (p *ListingParser) Parse(c byte) (r Record) {
	if p.state == stateDone {
		return
	}
	switch {
	case c == cr:
		r = p.record()
		p.buf = p.buf[:0]
		if r.Kind == RecordEnd {
			p.state = stateDone
		}
	case isListingByte(c):
		if len(p.buf) < p.limit {
			p.buf = append(p.buf, c)
		}
	}
	return
}

func (p *ListingParser) record() (r Record) {
	l := p.Layout
	if l.Auto() {
		comma := bytes.IndexByte(p.buf, ',')
		if comma < 0 && !bytes.Contains(p.buf, endToken) {
			r.Kind = RecordShort
			return
		}
		l.HandleOffset = comma + 1
		l.PropertyOffset = l.HandleOffset + l.HandleDigits + 1
	}
	switch {
	case bytes.Contains(p.buf, endToken):
		r.Kind = RecordEnd
	case len(p.buf) < l.MinRecordLen():
		r.Kind = RecordShort
	default:
		r.Property = Property(DecodeWord(p.buf[l.PropertyOffset : l.PropertyOffset+l.PropertyDigits]))
		if !Listed(r.Property) {
			r.Kind = RecordSkipped
			return
		}
		r.Handle = uint16(DecodeWord(p.buf[l.HandleOffset : l.HandleOffset+l.HandleDigits]))
		r.Kind = RecordHandle
	}
	return
}

func isListingByte(c byte) bool {
	return IsHexDigit(c) || c == ',' || c == 'E' || c == 'N' || c == 'D'
}
