package main

import "fmt"

// CompareBar is the floating summary control: selection count and whether
// the compare action is enabled. Comparison is only meaningful for two or
// more items.
type CompareBar struct {
	Count   int
	Max     int
	Visible bool
	Enabled bool
	Warning string
}

// ComparisonView is the side-by-side table: one column per selected item in
// insertion order, one row per comparable field.
type ComparisonView struct {
	Columns []CompareColumn
	Rows    []CompareRow
	Enough  bool
}

// CompareColumn heads a single item's column.
type CompareColumn struct {
	ID       int
	Name     string
	ImageURL string
}

// CompareRow is one comparable field across all columns.
type CompareRow struct {
	Label  string
	Values []string
	IsLink bool
}

func buildCompareBar(warning string) CompareBar {
	count := coord.CompareCount()
	return CompareBar{
		Count:   count,
		Max:     coord.CompareMax(),
		Visible: count > 0 || warning != "",
		Enabled: count >= 2,
		Warning: warning,
	}
}

func compareLimitWarning() string {
	return fmt.Sprintf("You can compare up to %d pieces. Remove one to add another.", coord.CompareMax())
}

// buildComparisonView resolves the compare set against the original
// collection; items hidden by the active filter still appear because lookup
// is positional, not view-based.
func buildComparisonView() ComparisonView {
	items := coord.CompareItems()

	cols := make([]CompareColumn, 0, len(items))
	for _, it := range items {
		cols = append(cols, CompareColumn{ID: it.ID, Name: it.Name, ImageURL: it.ImageURL})
	}

	row := func(label string, pick func(i int) string) CompareRow {
		values := make([]string, len(items))
		for i := range items {
			values[i] = pick(i)
		}
		return CompareRow{Label: label, Values: values}
	}

	rows := []CompareRow{
		row("Name", func(i int) string { return items[i].Name }),
		row("Price", func(i int) string { return items[i].Price }),
		row("Width", func(i int) string { return items[i].Dimensions.Width }),
		row("Depth", func(i int) string { return items[i].Dimensions.Depth }),
		row("Height", func(i int) string { return items[i].Dimensions.Height }),
	}
	link := row("Link", func(i int) string { return items[i].ProductURL })
	link.IsLink = true
	rows = append(rows, link)

	return ComparisonView{
		Columns: cols,
		Rows:    rows,
		Enough:  len(items) >= 2,
	}
}
