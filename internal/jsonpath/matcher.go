package jsonpath

import "github.com/jacoelho/jsoneater/flatten"

type pathMatcher struct {
	segs   []segment
	path   *flatten.Path
	prefix bool // a match may stop before the end of path
}

// matchPath checks if path matches the compiled segments.
// For the expression "$", only the empty path matches.
func matchPath(segs []segment, path *flatten.Path, prefix bool) bool {
	m := &pathMatcher{
		segs:   segs,
		path:   path,
		prefix: prefix,
	}
	return m.match(0, 0)
}

func (m *pathMatcher) match(segIdx, pathIdx int) bool {
	if segIdx == len(m.segs) {
		return m.prefix || pathIdx == m.path.Len()
	}
	if pathIdx == m.path.Len() {
		return false
	}

	seg := m.segs[segIdx]
	if seg.deep {
		return m.matchDeepSegment(segIdx, pathIdx)
	}

	if selMatch(seg.sels, m.path.At(pathIdx)) {
		return m.match(segIdx+1, pathIdx+1)
	}
	return false
}

func (m *pathMatcher) matchDeepSegment(segIdx, pathIdx int) bool {
	seg := m.segs[segIdx]

	for k := pathIdx; k < m.path.Len(); k++ {
		if selMatch(seg.sels, m.path.At(k)) && m.match(segIdx+1, k+1) {
			return true
		}
	}
	return false
}

// selMatch checks if any selector in sels matches seg.
func selMatch(sels []selector, seg flatten.Segment) bool {
	for _, s := range sels {
		if s.match(seg) {
			return true
		}
	}
	return false
}
