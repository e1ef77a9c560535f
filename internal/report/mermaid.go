package report

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/mdagg/internal/discovery"
	"github.com/dusk-indust/mdagg/internal/entity"
)

const noAuthorityLabel = "(no registration authority)"

// Mermaid produces a Mermaid graph LR diagram of discovery-name clashes.
// Identity providers are grouped by registration authority; each provider
// reusing a name gets one edge to each provider that used a name first,
// labelled with the first clashing name. Providers without clashes are left out.
func Mermaid(records []*entity.Record) string {
	type edge struct {
		from, to *entity.Record
		name     string
	}

	first := make(map[string]*entity.Record)
	involved := make(map[*entity.Record]bool)
	linked := make(map[[2]*entity.Record]bool)
	var edges []edge

	for _, r := range records {
		if !r.IsIdentityProvider() {
			continue
		}
		for _, n := range r.Names {
			key := discovery.DetectionKey(n.Text())
			if key == "" {
				continue
			}
			prior, ok := first[key]
			if !ok {
				first[key] = r
				continue
			}
			if prior == r {
				continue
			}
			pair := [2]*entity.Record{r, prior}
			if linked[pair] {
				continue
			}
			linked[pair] = true
			edges = append(edges, edge{from: r, to: prior, name: discovery.AvoidanceKey(n.Text())})
			involved[r], involved[prior] = true, true
		}
	}

	// Node IDs follow batch order; groups follow first appearance.
	nodeIDs := make(map[*entity.Record]string)
	var groups []string
	members := make(map[string][]*entity.Record)
	for _, r := range records {
		if !involved[r] {
			continue
		}
		nodeIDs[r] = fmt.Sprintf("N%d", len(nodeIDs))
		label := noAuthorityLabel
		if r.HasAuthority {
			label = r.RegistrationAuthority
		}
		if _, ok := members[label]; !ok {
			groups = append(groups, label)
		}
		members[label] = append(members[label], r)
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")
	for i, g := range groups {
		fmt.Fprintf(&sb, "  subgraph A%d[\"%s\"]\n", i, escapeLabel(g))
		for _, r := range members[g] {
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", nodeIDs[r], escapeLabel(r.ID))
		}
		sb.WriteString("  end\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&sb, "  %s ---|\"%s\"| %s\n", nodeIDs[e.from], escapeLabel(e.name), nodeIDs[e.to])
	}
	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
