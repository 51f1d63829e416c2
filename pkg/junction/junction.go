// Package junction loads junction boxes (integer points in 3D space) from
// line-oriented text input.
//
// # Input Format
//
// Each non-blank line is one point written as three comma-separated base-10
// integers:
//
//	162,817,812
//	57,618,57
//	906,360,560
//
// The literal text of the line is the point's identity [Point.Key]; two lines
// with the same text are rejected as duplicates. An optional leading line
// without a comma is the connection budget used by the budgeted policy:
//
//	10
//	162,817,812
//	...
//
// Points are numbered densely in input order ([Point.Index]). Downstream
// packages address points by index; the key is kept for tie-breaking and
// display.
package junction

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/junction/pkg/cache"
	"github.com/matzehuels/junction/pkg/errors"
)

// MaxCoordinate bounds the absolute value of every coordinate. Within it a
// squared distance, 3·(2·MaxCoordinate)², and the product of two X
// coordinates both fit in an int64.
const MaxCoordinate = 876_706_528

// Point is one junction box. Points are immutable once loaded.
type Point struct {
	Key   string // Literal input record, unique within an Input
	Index int    // Dense index in input order
	X     int64
	Y     int64
	Z     int64
}

// String returns the point's key.
func (p Point) String() string { return p.Key }

// DistanceSquared returns the squared Euclidean distance between p and q.
// It does not overflow for coordinates within MaxCoordinate.
func (p Point) DistanceSquared(q Point) int64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return dx*dx + dy*dy + dz*dz
}

// Input is the parsed content of one input stream.
type Input struct {
	Points    []Point
	Budget    int  // Connection budget from the header line
	HasBudget bool // Whether a header line was present

	raw []byte
}

// Len returns the number of points.
func (in *Input) Len() int { return len(in.Points) }

// Keys returns the point keys in index order.
func (in *Input) Keys() []string {
	keys := make([]string, len(in.Points))
	for i, p := range in.Points {
		keys[i] = p.Key
	}
	return keys
}

// Hash returns a content hash of the records that make up the input.
// Blank lines and line endings do not affect it.
func (in *Input) Hash() string {
	return cache.Hash(in.raw)
}

// ParsePoint parses a single "x,y,z" record. The record text (without
// surrounding whitespace) becomes the point key.
func ParsePoint(record string, index int) (Point, error) {
	return parsePoint(strings.TrimSpace(record), index, index+1)
}

func parsePoint(record string, index, line int) (Point, error) {
	fields := strings.Split(record, ",")
	if len(fields) != 3 {
		return Point{}, errors.ParseLine(line, record, nil, "expected 3 coordinates, got %d", len(fields))
	}

	var coords [3]int64
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return Point{}, errors.ParseLine(line, record, err, "invalid coordinate %q", f)
		}
		if v > MaxCoordinate || v < -MaxCoordinate {
			return Point{}, errors.ParseLine(line, record, nil, "coordinate %d out of range [-%d, %d]", v, MaxCoordinate, MaxCoordinate)
		}
		coords[i] = v
	}

	return Point{
		Key:   record,
		Index: index,
		X:     coords[0],
		Y:     coords[1],
		Z:     coords[2],
	}, nil
}

// ParseBudget parses a budget header record.
func ParseBudget(record string) (int, error) {
	return parseBudget(strings.TrimSpace(record), 1)
}

func parseBudget(record string, line int) (int, error) {
	n, err := strconv.Atoi(record)
	if err != nil {
		return 0, errors.ParseLine(line, record, err, "invalid connection budget")
	}
	if n < 0 {
		return 0, errors.ParseLine(line, record, nil, "connection budget must not be negative")
	}
	return n, nil
}

// Read parses points (and an optional budget header) from r.
// Any malformed record aborts the read with a PARSE_ERROR naming its line.
func Read(r io.Reader) (*Input, error) {
	in := &Input{}
	seen := make(map[string]int)

	var raw strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	first := true
	for sc.Scan() {
		line++
		record := strings.TrimSpace(sc.Text())
		if record == "" {
			continue
		}
		raw.WriteString(record)
		raw.WriteByte('\n')

		if first {
			first = false
			if !strings.Contains(record, ",") {
				budget, err := parseBudget(record, line)
				if err != nil {
					return nil, err
				}
				in.Budget, in.HasBudget = budget, true
				continue
			}
		}

		if prev, dup := seen[record]; dup {
			return nil, errors.ParseLine(line, record, nil, "duplicate point (first seen on line %d)", prev)
		}
		seen[record] = line

		p, err := parsePoint(record, len(in.Points), line)
		if err != nil {
			return nil, err
		}
		in.Points = append(in.Points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	in.raw = []byte(raw.String())
	return in, nil
}

// ReadString is a convenience wrapper around [Read].
func ReadString(s string) (*Input, error) {
	return Read(strings.NewReader(s))
}

// FromPoints builds an Input from already-parsed points, re-indexing them
// in slice order. Coordinates are not range-checked. It is mainly useful in
// tests.
func FromPoints(points []Point) *Input {
	in := &Input{Points: make([]Point, len(points))}
	var raw strings.Builder
	for i, p := range points {
		p.Index = i
		if p.Key == "" {
			p.Key = fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
		}
		in.Points[i] = p
		raw.WriteString(p.Key)
		raw.WriteByte('\n')
	}
	in.raw = []byte(raw.String())
	return in
}
