// ABOUTME: Graph rendering of a big object, its fields and the composite index
// ABOUTME: Indexed fields hang off the index node in column order, the rest off the object
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/bigmeta/metadata"
)

// Formats accepted by ParseFormat.
var formats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
}

// ParseFormat maps a format name to a graphviz output format.
func ParseFormat(name string) (graphviz.Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown graph format %q (want dot, svg or png)", name)
	}
	return f, nil
}

type GraphGenerator struct {
	format graphviz.Format
}

func NewGraphGenerator(format graphviz.Format) *GraphGenerator {
	return &GraphGenerator{format: format}
}

// GenerateObjectGraph renders the object description.
func (g *GraphGenerator) GenerateObjectGraph(ctx context.Context, desc *metadata.Description) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	obj := desc.Object
	graph.SetLabel(fmt.Sprintf("%s (%s)", obj.Label, obj.APIName))
	graph.SetRankDir(cgraph.LRRank)

	objNode, err := graph.CreateNodeByName(obj.APIName)
	if err != nil {
		return nil, fmt.Errorf("failed to create object node: %w", err)
	}
	objNode.SetLabel(fmt.Sprintf("%s\n%s", obj.Label, obj.APIName))
	objNode.SetShape("box")
	objNode.SetStyle("filled")
	objNode.SetFillColor("lightblue")

	var indexNode *cgraph.Node
	if obj.Index != nil {
		indexNode, err = graph.CreateNodeByName(obj.Index.FullName)
		if err != nil {
			return nil, fmt.Errorf("failed to create index node: %w", err)
		}
		indexNode.SetLabel(obj.Index.Label)
		indexNode.SetShape("diamond")
		indexNode.SetStyle("filled")
		indexNode.SetFillColor("lightyellow")

		edge, err := graph.CreateEdgeByName("index", objNode, indexNode)
		if err != nil {
			return nil, fmt.Errorf("failed to create index edge: %w", err)
		}
		edge.SetLabel("index")
	}

	for _, fs := range desc.Fields {
		f := fs.Field
		node, err := graph.CreateNodeByName(f.FullName)
		if err != nil {
			return nil, fmt.Errorf("failed to create field node: %w", err)
		}
		label := fmt.Sprintf("%s\n%s", f.FullName, f.Type)
		if f.Required {
			label += "\nrequired"
		}
		node.SetLabel(label)
		node.SetShape("ellipse")

		if fs.IndexPosition >= 0 && indexNode != nil {
			node.SetStyle("filled")
			node.SetFillColor("lightgreen")
			edge, err := graph.CreateEdgeByName(f.FullName, indexNode, node)
			if err != nil {
				return nil, fmt.Errorf("failed to create column edge: %w", err)
			}
			edge.SetLabel(fmt.Sprintf("%d %s", fs.IndexPosition, fs.Direction))
			continue
		}

		edge, err := graph.CreateEdgeByName(f.FullName, objNode, node)
		if err != nil {
			return nil, fmt.Errorf("failed to create field edge: %w", err)
		}
		edge.SetStyle("dashed")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, g.format, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.Bytes(), nil
}
