package domain

import "sort"

// AccountNode is one account in the chart of accounts tree.
type AccountNode struct {
	Account  *Account
	Children []*AccountNode
}

// BuildHierarchy arranges accounts into a forest keyed by parent code.
//
// Accounts without a parent, with a parent that does not exist, or naming
// themselves as parent are roots. A parent cycle in stored data is broken by
// promoting the lowest code in the cycle to a root, so every account appears
// exactly once.
func BuildHierarchy(accounts []*Account) []*AccountNode {
	byCode := make(map[string]*Account, len(accounts))
	codes := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if _, dup := byCode[a.Code]; dup {
			continue
		}
		byCode[a.Code] = a
		codes = append(codes, a.Code)
	}
	sort.Strings(codes)

	children := make(map[string][]string)
	roots := make(map[string]bool)
	for _, code := range codes {
		parent := byCode[code].ParentCode
		if _, ok := byCode[parent]; !ok || parent == code {
			roots[code] = true
			continue
		}
		children[parent] = append(children[parent], code)
	}

	reached := make(map[string]bool, len(codes))
	var mark func(code string)
	mark = func(code string) {
		if reached[code] {
			return
		}
		reached[code] = true
		for _, c := range children[code] {
			mark(c)
		}
	}
	for _, code := range codes {
		if roots[code] {
			mark(code)
		}
	}

	// Anything still unreached sits on or below a cycle.
	for _, code := range codes {
		if reached[code] {
			continue
		}
		root := cycleMinimum(byCode, code)
		roots[root] = true
		mark(root)
	}

	placed := make(map[string]bool, len(codes))
	var build func(code string) *AccountNode
	build = func(code string) *AccountNode {
		placed[code] = true
		node := &AccountNode{Account: byCode[code]}
		for _, c := range children[code] {
			if roots[c] || placed[c] {
				continue
			}
			node.Children = append(node.Children, build(c))
		}
		return node
	}

	forest := make([]*AccountNode, 0, len(roots))
	for _, code := range codes {
		if roots[code] {
			forest = append(forest, build(code))
		}
	}
	return forest
}

// cycleMinimum follows parent links from start until a code repeats and
// returns the lowest code on the loop.
func cycleMinimum(byCode map[string]*Account, start string) string {
	seen := make(map[string]int)
	path := []string{}
	code := start
	for {
		if i, ok := seen[code]; ok {
			loop := path[i:]
			lowest := loop[0]
			for _, c := range loop[1:] {
				if c < lowest {
					lowest = c
				}
			}
			return lowest
		}
		seen[code] = len(path)
		path = append(path, code)
		code = byCode[code].ParentCode
	}
}

// Walk visits every node depth-first, parents before children.
func Walk(forest []*AccountNode, fn func(node *AccountNode, depth int)) {
	var visit func(n *AccountNode, depth int)
	visit = func(n *AccountNode, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, n := range forest {
		visit(n, 0)
	}
}
