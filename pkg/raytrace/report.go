package raytrace

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Table renders the run statistics as a text table.
func (s *Statistics) Table() string {
	snap := s.Snapshot()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Run", s.RunID.String()})
	table.Append([]string{"Mode", s.Mode.String()})
	table.Append([]string{"Workers", fmt.Sprint(s.Workers)})
	table.Append([]string{"Elapsed", s.Elapsed.String()})
	table.Append([]string{"Rays", fmt.Sprint(snap.Rays)})
	table.Append([]string{"Tests", fmt.Sprint(snap.Tests)})
	table.Append([]string{"Intersections", fmt.Sprint(snap.Intersections)})
	table.SetFooter([]string{"Tests/ray", fmt.Sprintf("%.2f", snap.TestsPerRay())})

	table.Render()
	return buf.String()
}

// Stats renders the index diagnostics of every mesh and of the whole model.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Mesh", "Triangles", "Depth", "Leafs", "Refs", "Avg/leaf"})
	for _, m := range sc.Meshes {
		st := m.Tree.Stats()
		table.Append([]string{
			m.Name,
			fmt.Sprint(st.InputTriangles),
			fmt.Sprint(st.Depth),
			fmt.Sprint(st.Leafs),
			fmt.Sprint(st.Triangles),
			fmt.Sprintf("%.2f", st.AveragePerLeaf),
		})
	}
	st := sc.Tree().Stats()
	table.SetFooter([]string{
		"model",
		fmt.Sprint(st.InputTriangles),
		fmt.Sprint(st.Depth),
		fmt.Sprint(st.Leafs),
		fmt.Sprint(st.Triangles),
		fmt.Sprintf("%.2f", st.AveragePerLeaf),
	})

	table.Render()
	return buf.String()
}
