package roster

import (
	"commute-planner/internal/domain"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	nameCol     = 0
	addressCol  = 1
	canDriveCol = 2

	// First result column (1-based) for designations.
	personResultCol = 4 // D
	officeResultCol = 3 // C
)

// ExcelRoster reads people and offices from two sheets of one workbook.
// Row 1 of each sheet is a header.
type ExcelRoster struct {
	Path        string
	PersonSheet string
	OfficeSheet string
	log         logrus.FieldLogger
}

func NewExcelRoster(path, personSheet, officeSheet string) *ExcelRoster {
	return &ExcelRoster{
		Path:        path,
		PersonSheet: personSheet,
		OfficeSheet: officeSheet,
		log:         logrus.WithField("workbook", path),
	}
}

// Load reads both sheets. Rows missing a name or an address are skipped.
func (r *ExcelRoster) Load() (domain.RosterRows, error) {
	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return domain.RosterRows{}, fmt.Errorf("load roster: open %q: %w", r.Path, err)
	}
	defer func() { _ = f.Close() }()

	people, err := r.readSheet(f, r.PersonSheet, true)
	if err != nil {
		return domain.RosterRows{}, err
	}

	offices, err := r.readSheet(f, r.OfficeSheet, false)
	if err != nil {
		return domain.RosterRows{}, err
	}

	r.log.Infof("loaded %d people and %d offices", len(people), len(offices))

	return domain.RosterRows{People: people, Offices: offices}, nil
}

func (r *ExcelRoster) readSheet(f *excelize.File, sheet string, withDrive bool) ([]domain.RosterRow, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("load roster: read sheet %q: %w", sheet, err)
	}

	out := make([]domain.RosterRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) <= addressCol {
			r.log.WithField("sheet", sheet).Debugf("row %d: too few cells, skipped", i+1)
			continue
		}

		name := strings.TrimSpace(row[nameCol])
		address := strings.TrimSpace(row[addressCol])
		if name == "" || address == "" {
			r.log.WithField("sheet", sheet).Warnf("row %d: blank name or address, skipped", i+1)
			continue
		}

		rr := domain.RosterRow{Name: name, Address: address, CanDrive: true}
		if withDrive && len(row) > canDriveCol {
			rr.CanDrive = parseYes(row[canDriveCol])
		}
		out = append(out, rr)
	}

	return out, nil
}

func parseYes(s string) bool {
	switch strings.TrimSpace(s) {
	case "Yes", "Y", "y":
		return true
	default:
		return false
	}
}

// WriteResults copies the source workbook to outputPath with each person's
// nearest offices from column D and each office's nearest persons from
// column C, as "name (minutes)". Rows are matched by name.
func (r *ExcelRoster) WriteResults(roster *domain.Roster, outputPath string) error {
	if roster == nil {
		return errors.New("write results: roster is nil")
	}

	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return fmt.Errorf("write results: open %q: %w", r.Path, err)
	}
	defer func() { _ = f.Close() }()

	personRows, err := rowIndex(f, r.PersonSheet)
	if err != nil {
		return err
	}
	for _, p := range roster.People {
		row, ok := personRows[p.Name]
		if !ok {
			continue
		}
		if err := writeDesignations(f, r.PersonSheet, row, personResultCol, p.NearestOffices); err != nil {
			return err
		}
	}

	officeRows, err := rowIndex(f, r.OfficeSheet)
	if err != nil {
		return err
	}
	for _, o := range roster.Offices {
		row, ok := officeRows[o.Name]
		if !ok {
			continue
		}
		if err := writeDesignations(f, r.OfficeSheet, row, officeResultCol, o.NearestPersons); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("write results: save %q: %w", outputPath, err)
	}

	r.log.WithField("output", outputPath).Info("designations written")
	return nil
}

// rowIndex maps the name column to 1-based row numbers, first match wins.
func rowIndex(f *excelize.File, sheet string) (map[string]int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("write results: read sheet %q: %w", sheet, err)
	}

	idx := make(map[string]int, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if _, dup := idx[name]; !dup && name != "" {
			idx[name] = i + 1
		}
	}
	return idx, nil
}

func writeDesignations(f *excelize.File, sheet string, row, startCol int, ds []domain.Designation) error {
	for i, d := range ds {
		cell, err := excelize.CoordinatesToCellName(startCol+i, row)
		if err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		value := d.Name + " (" + strconv.Itoa(d.Minutes) + ")"
		if err := f.SetCellStr(sheet, cell, value); err != nil {
			return fmt.Errorf("write results: set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
