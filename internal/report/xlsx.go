package report

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteXLSX writes the operator workbook: a summary sheet of counts and an
// unresolved sheet listing every street identity that failed to resolve.
func (r *Report) WriteXLSX(path string, sources []string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	addPair := func(name string, value int) {
		row := summary.AddRow()
		row.AddCell().Value = name
		row.AddCell().Value = strconv.Itoa(value)
	}
	addPair("Total records", r.Total())
	for _, source := range sources {
		addPair("Resolved ("+source+")", r.SourceCount(source))
	}
	addPair("Unresolved", r.UnresolvedCount())

	unresolved, err := f.AddSheet("Unresolved")
	if err != nil {
		return eris.Wrap(err, "report: add unresolved sheet")
	}
	header := unresolved.AddRow()
	for _, h := range []string{"Direction", "Street Name", "Street Type"} {
		header.AddCell().Value = h
	}
	for _, t := range r.UnresolvedTriples() {
		row := unresolved.AddRow()
		row.AddCell().Value = t.Direction
		row.AddCell().Value = t.StreetName
		row.AddCell().Value = t.StreetType
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
