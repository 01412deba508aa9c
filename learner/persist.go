package learner

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/monolearn/conmodel/bitpoint"
	"github.com/monolearn/conmodel/constraint"
	"github.com/monolearn/conmodel/sparseset"
)

// wireConstraint is the on-disk discriminated union for the four
// constraint.Constraint kinds. The original Python tool persists a
// bz2-compressed pickle of the whole system (constraint_pool.py's
// sysfile); Go's standard library has no bzip2 writer, so Save/Load
// use gzip over JSON instead (spec.md §3 "Lifecycle": "periodically
// serialized to a single file so learning can resume").
type wireConstraint struct {
	Kind      string    `json:"kind"`
	Coef      []float64 `json:"coef,omitempty"`
	Const     float64   `json:"const,omitempty"`
	Literals  []int     `json:"literals,omitempty"`
	Offset    uint64    `json:"offset,omitempty"`
	OffsetN   int       `json:"offset_n,omitempty"`
	BasisBits []uint64  `json:"basis_bits,omitempty"`
}

func encodeConstraint(c constraint.Constraint) wireConstraint {
	switch v := c.(type) {
	case constraint.Inequality:
		return wireConstraint{Kind: "inequality", Coef: v.Coef, Const: v.Const}
	case constraint.OrClause:
		return wireConstraint{Kind: "or", Literals: []int(v)}
	case constraint.AndClause:
		return wireConstraint{Kind: "and", Literals: []int(v)}
	case constraint.Subspace:
		bits := make([]uint64, len(v.Basis))
		for i, b := range v.Basis {
			bits[i] = b.Bits
		}
		return wireConstraint{Kind: "subspace", Offset: v.Offset.Bits, OffsetN: v.Offset.N, BasisBits: bits}
	default:
		panic(fmt.Sprintf("learner: unknown constraint kind %T", c))
	}
}

func decodeConstraint(w wireConstraint) (constraint.Constraint, error) {
	switch w.Kind {
	case "inequality":
		return constraint.Inequality{Coef: w.Coef, Const: w.Const}, nil
	case "or":
		return constraint.OrClause(w.Literals), nil
	case "and":
		return constraint.AndClause(w.Literals), nil
	case "subspace":
		basis := make([]bitpoint.Point, len(w.BasisBits))
		for i, b := range w.BasisBits {
			basis[i] = bitpoint.FromBits(w.OffsetN, b)
		}
		return constraint.Subspace{Offset: bitpoint.FromBits(w.OffsetN, w.Offset), Basis: basis}, nil
	default:
		return nil, fmt.Errorf("learner: unrecognized constraint kind %q", w.Kind)
	}
}

type wireSystem struct {
	N               int               `json:"n"`
	Lower           [][]int           `json:"lower"`
	Upper           [][]int           `json:"upper"`
	Meta            []wireMetaEntry   `json:"meta"`
	IsCompleteLower bool              `json:"is_complete_lower"`
	IsCompleteUpper bool              `json:"is_complete_upper"`
}

type wireMetaEntry struct {
	Key string         `json:"key"`
	C   wireConstraint `json:"c"`
}

// Save serializes the full learner state (spec.md §3 "periodically
// serialized to a single file so learning can resume").
func (s *System) Save(w io.Writer) error {
	ws := wireSystem{
		N:               s.N,
		IsCompleteLower: s.isCompleteLower,
		IsCompleteUpper: s.isCompleteUpper,
	}
	for _, low := range s.lower {
		ws.Lower = append(ws.Lower, low.Items())
		c, ok := s.meta[low.Key()]
		if ok {
			ws.Meta = append(ws.Meta, wireMetaEntry{Key: low.Key(), C: encodeConstraint(c)})
		}
	}
	for _, up := range s.upper {
		ws.Upper = append(ws.Upper, up.Items())
	}

	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(ws); err != nil {
		gz.Close()
		return fmt.Errorf("learner: encode system: %w", err)
	}
	return gz.Close()
}

// Load restores state saved by Save, replacing the receiver's current
// frontier, N and completeness flags. The extraprec map is not saved
// and must already match the saved state; Load does not re-derive it.
func (s *System) Load(r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("learner: open gzip stream: %w", err)
	}
	defer gz.Close()

	var ws wireSystem
	if err := json.NewDecoder(gz).Decode(&ws); err != nil {
		return fmt.Errorf("learner: decode system: %w", err)
	}

	metaByKey := make(map[string]constraint.Constraint, len(ws.Meta))
	for _, me := range ws.Meta {
		c, err := decodeConstraint(me.C)
		if err != nil {
			return err
		}
		metaByKey[me.Key] = c
	}

	s.N = ws.N
	s.isCompleteLower = ws.IsCompleteLower
	s.isCompleteUpper = ws.IsCompleteUpper
	s.lower = s.lower[:0]
	s.upper = s.upper[:0]
	s.meta = make(map[string]constraint.Constraint, len(ws.Lower))
	for _, items := range ws.Lower {
		set := sparseset.New(items...)
		s.lower = append(s.lower, set)
		if c, ok := metaByKey[set.Key()]; ok {
			s.meta[set.Key()] = c
		}
	}
	for _, items := range ws.Upper {
		s.upper = append(s.upper, sparseset.New(items...))
	}
	return nil
}
