package metadata

import "github.com/beevik/etree"

// Walk visits el's subtree bottom-up: every child before its parent. Each
// level's children are copied before recursing, so visit may remove or
// reorder el's siblings and children without disturbing the traversal.
func Walk(el *etree.Element, visit func(*etree.Element)) {
	kids := el.ChildElements()
	snapshot := make([]*etree.Element, len(kids))
	copy(snapshot, kids)

	for _, c := range snapshot {
		Walk(c, visit)
	}
	visit(el)
}
