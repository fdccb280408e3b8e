package index

// TriplePermutations returns every valid triple label.
func TriplePermutations() []string {
	return permute("spo")
}

// QuadPermutations returns every valid quad label.
func QuadPermutations() []string {
	return permute("spog")
}

func permute(cols string) []string {
	if len(cols) <= 1 {
		return []string{cols}
	}
	var out []string
	for i := 0; i < len(cols); i++ {
		rest := cols[:i] + cols[i+1:]
		for _, tail := range permute(rest) {
			out = append(out, string(cols[i])+tail)
		}
	}
	return out
}

// ForPattern picks the ordering whose leading columns cover the bound
// positions of a pattern, so a scan over a file clustered that way touches a
// contiguous range of rows. bound is indexed by Subject, Predicate, Object,
// Graph.
func ForPattern(bound [4]bool) string {
	s, p, o, g := bound[Subject], bound[Predicate], bound[Object], bound[Graph]

	if !g {
		switch {
		case s && p:
			return "spo"
		case p && o:
			return "pos"
		case o && s:
			return "osp"
		case s:
			return "spo"
		case p:
			return "pos"
		case o:
			return "osp"
		}
		return "spo"
	}

	switch {
	case s && p:
		return "gspo"
	case p && o:
		return "gpos"
	case o && s:
		return "gosp"
	case s:
		return "gspo"
	case p:
		return "gpos"
	case o:
		return "gosp"
	}
	return "gspo"
}

// Covers reports how many leading columns of label are bound, i.e. the
// length of the clustered prefix a scan can exploit. Invalid labels cover
// nothing.
func Covers(label string, bound [4]bool) int {
	if !Validate(label) {
		return 0
	}
	n := 0
	for _, col := range OrderingClause(label, false) {
		pos := position(col)
		if pos < 0 || !bound[pos] {
			break
		}
		n++
	}
	return n
}

func position(col string) int {
	for i, c := range Columns {
		if c == col {
			return i
		}
	}
	return -1
}
