package net

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/layer"
)

// shaped is implemented by layers that know their output map shape.
type shaped interface {
	OutputShape() []int
}

func outputShape(l layer.Layer) string {
	if s, ok := l.(shaped); ok {
		return fmt.Sprint(s.OutputShape())
	}
	return fmt.Sprintf("[%d]", l.OutSize())
}

// Summary writes a layer table with output shapes and parameter counts to w.
func (n *Network) Summary(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Layer (type)", "Output Shape", "Param #"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	total := 0
	for i, l := range n.layers {
		params := len(l.Params())
		total += params
		table.Append([]string{
			fmt.Sprintf("%s_%d", layerName(l), i),
			outputShape(l),
			strconv.Itoa(params),
		})
	}
	table.SetFooter([]string{"", "Total params", strconv.Itoa(total)})
	table.Render()
}
