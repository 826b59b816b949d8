package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// render draws rows under a header in the house table style. Columns
// listed in rightAligned are right-aligned; everything else stays left.
func render(title string, header table.Row, rows []table.Row, rightAligned ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.AppendHeader(header)
	tw.AppendRows(rows)

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, n := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      n,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// fleetTable renders one row per registered worker.
func (s *simulation) fleetTable() string {
	rows := make([]table.Row, 0, s.manager.Size())
	for _, id := range s.manager.IDs() {
		w, ok := s.manager.Get(id)
		if !ok {
			continue
		}
		rows = append(rows, table.Row{
			id, w.Name(), w.Phase().String(), w.IsCreated(), w.IsRunning(), w.IsSuspended(),
		})
	}
	return render(s.cfg.FleetName,
		table.Row{"id", "worker", "phase", "created", "running", "suspended"}, rows, 1)
}

// healthTable renders the per-probe state with production counts.
func (s *simulation) healthTable() string {
	entries, ok := s.health.Snapshot()
	if !ok {
		return "probe health unavailable"
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		var produced uint64
		if i := int(e.Value); i >= 0 && i < len(s.sensors) {
			produced = s.sensors[i].produced.Load()
		}
		rows = append(rows, table.Row{e.Name, e.Flag.String(), produced})
	}
	return render("probe health",
		table.Row{"probe", "state", "produced"}, rows, 3)
}
