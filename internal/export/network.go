package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"mapmatch/internal/network"
)

// nodeHeader/edgeHeader mirror constructNetwork.py's export_nodes/export_edges
// dictionaries: every graph vertex's attributes, and every edge's endpoints
// plus a line_geom column.
var (
	nodeHeader = []string{"id", "lon", "lat", "speed", "heading"}
	edgeHeader = []string{"lon1", "lat1", "lon2", "lat2", "weight", "line_geom"}
)

// WriteNodesFile writes every vertex of graph to path in node-export CSV
// form, one row per vertex id.
func WriteNodesFile(path string, graph *network.Graph) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	return WriteNodes(file, graph)
}

// WriteNodes writes every vertex of graph to w, grounded on
// constructNetwork.py's export_nodes.
func WriteNodes(w io.Writer, graph *network.Graph) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(nodeHeader); err != nil {
		return errors.WithStack(err)
	}

	for id := 0; id < graph.NumVertices(); id++ {
		record := []string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%f", graph.Location[id][0]),
			fmt.Sprintf("%f", graph.Location[id][1]),
			fmt.Sprintf("%f", graph.SpeedLimit[id]),
			fmt.Sprintf("%f", graph.Heading[id]),
		}

		if err := writer.Write(record); err != nil {
			return errors.WithStack(err)
		}
	}

	writer.Flush()
	return errors.WithStack(writer.Error())
}

// WriteEdgesFile writes every edge of graph to path in edge-export CSV form.
func WriteEdgesFile(path string, graph *network.Graph) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	return WriteEdges(file, graph)
}

// WriteEdges writes every edge of graph to w, grounded on
// constructNetwork.py's export_edges.
func WriteEdges(w io.Writer, graph *network.Graph) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(edgeHeader); err != nil {
		return errors.WithStack(err)
	}

	for u := 0; u < graph.NumVertices(); u++ {
		for _, edge := range graph.Neighbors(u) {
			geom, err := lineString(graph.Location[u], graph.Location[edge.To])
			if err != nil {
				return err
			}

			record := []string{
				fmt.Sprintf("%f", graph.Location[u][0]),
				fmt.Sprintf("%f", graph.Location[u][1]),
				fmt.Sprintf("%f", graph.Location[edge.To][0]),
				fmt.Sprintf("%f", graph.Location[edge.To][1]),
				fmt.Sprintf("%f", edge.Weight),
				geom,
			}

			if err := writer.Write(record); err != nil {
				return errors.WithStack(err)
			}
		}
	}

	writer.Flush()
	return errors.WithStack(writer.Error())
}
