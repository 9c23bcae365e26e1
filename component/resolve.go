package component

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nizvoo/jevois/errors"
	"github.com/nizvoo/jevois/param"
)

// Match is one parameter cell denoted by a descriptor, qualified by its path
// relative to the component the descriptor was resolved on.
type Match struct {
	Path string
	Cell param.Cell
}

// splitDescriptor validates a descriptor and returns its segments. All
// segments but the last name an instance at successive depths; the last
// segment names a parameter local to the component reached.
func splitDescriptor(descriptor string) ([]string, error) {
	if descriptor == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: empty descriptor", errors.ErrMalformedDescriptor),
			"Component", "splitDescriptor", "descriptor validation")
	}
	segments := strings.Split(descriptor, Delimiter)
	for _, seg := range segments {
		if seg == "" {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: empty segment in %q", errors.ErrMalformedDescriptor, descriptor),
				"Component", "splitDescriptor", "descriptor validation")
		}
	}
	return segments, nil
}

// ResolveAll resolves a descriptor against this component's own parameters
// and its sub-tree, returning every matched cell tagged with its qualified
// path.
//
// A descriptor with a single segment is a relative match: it matches a
// parameter with that local name at any depth, potentially across sibling
// branches. A multi-segment descriptor is fully qualified and matches at
// most one cell. Result order follows a stable depth-first, insertion-order
// traversal; it is only stable for a static tree. Matching nothing is not an
// error here; only a malformed descriptor is.
func (b *Base) ResolveAll(descriptor string) ([]Match, error) {
	segments, err := splitDescriptor(descriptor)
	if err != nil {
		return nil, err
	}

	var out []Match
	if len(segments) == 1 {
		b.collectRelative("", segments[0], &out)
		return out, nil
	}

	cur := b
	for _, seg := range segments[:len(segments)-1] {
		sub, err := cur.Sub(seg)
		if err != nil {
			return nil, nil // instance path does not exist: zero matches
		}
		cur = sub.Node()
	}

	last := segments[len(segments)-1]
	cur.mu.RLock()
	cell := cur.paramLocked(last)
	cur.mu.RUnlock()
	if cell != nil {
		out = append(out, Match{Path: strings.Join(segments, Delimiter), Cell: cell})
	}
	return out, nil
}

// collectRelative gathers every parameter named name in the sub-tree rooted
// at b. Children are snapshotted under shared access and released before
// descending, so no component's lock is held while a deeper lock is taken.
func (b *Base) collectRelative(prefix, name string, out *[]Match) {
	b.mu.RLock()
	cell := b.paramLocked(name)
	subs := slices.Clone(b.children)
	b.mu.RUnlock()

	if cell != nil {
		*out = append(*out, Match{Path: joinPath(prefix, name), Cell: cell})
	}
	for _, sub := range subs {
		sb := sub.Node()
		sb.collectRelative(joinPath(prefix, sb.name), name, out)
	}
}

// ResolveUnique resolves a descriptor that must denote exactly one parameter.
// Zero matches is ErrNotFound; more than one is ErrAmbiguousDescriptor, in
// which case the caller must qualify the descriptor further.
func (b *Base) ResolveUnique(descriptor string) (Match, error) {
	matches, err := b.ResolveAll(descriptor)
	if err != nil {
		return Match{}, err
	}

	switch len(matches) {
	case 0:
		return Match{}, errors.WrapInvalid(
			fmt.Errorf("%w: descriptor %q under %q", errors.ErrNotFound, descriptor, b.Path()),
			"Component", "ResolveUnique", "descriptor resolution")
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		return Match{}, errors.WrapInvalid(
			fmt.Errorf("%w: %q matches %s", errors.ErrAmbiguousDescriptor, descriptor, strings.Join(paths, ", ")),
			"Component", "ResolveUnique", "uniqueness check")
	}
}

// ParamValueString is a matched parameter's qualified path and formatted
// value.
type ParamValueString struct {
	Path  string
	Value string
}

// ParamStrings resolves a descriptor and returns every matched parameter's
// value in textual form. This is the surface config files and command
// handlers use; typed access goes through GetParam.
func (b *Base) ParamStrings(descriptor string) ([]ParamValueString, error) {
	matches, err := b.ResolveAll(descriptor)
	if err != nil {
		return nil, err
	}

	out := make([]ParamValueString, 0, len(matches))
	for _, m := range matches {
		out = append(out, ParamValueString{Path: m.Path, Value: m.Cell.String()})
	}
	return out, nil
}

// SetParamString resolves a descriptor and sets every matched parameter from
// the textual form of the value, returning the qualified paths that were
// set. A cell that rejects the value (parse, validation or freeze failure)
// contributes an error without silencing the remaining matches.
func (b *Base) SetParamString(descriptor, value string) ([]string, error) {
	matches, err := b.ResolveAll(descriptor)
	if err != nil {
		return nil, err
	}

	var set []string
	var errs []error
	for _, m := range matches {
		if err := m.Cell.SetFromString(value); err != nil {
			errs = append(errs, errors.Wrap(err, "Component", "SetParamString", fmt.Sprintf("set of %q", m.Path)))
			continue
		}
		set = append(set, m.Path)
		b.notify(func(o Observer) { o.ParamSet(cellPath(m.Cell)) })
	}
	return set, joinErrs(errs)
}

// cellPath returns the absolute path of a cell for observer notifications
func cellPath(cell param.Cell) string {
	if owner := cell.Owner(); owner != nil {
		return joinPath(owner.Path(), cell.Name())
	}
	return cell.Name()
}
