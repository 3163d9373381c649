package archive

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agromw/missiond/core/model"
)

// WriteMissionCSV writes a flat audit record of the mission to w. Each row
// starts with a section tag so the file stays greppable: geometry sections
// emit one row per vertex, entity sections one row per entity.
func WriteMissionCSV(w io.Writer, m *model.Mission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "id", "name", "latitude", "longitude", "altitude", "detail"}); err != nil {
		return err
	}

	if m.NavigationArea != nil {
		if err := writeRegion(cw, "navigation_area", 0, *m.NavigationArea); err != nil {
			return err
		}
	}
	for i, region := range m.ForbiddenArea {
		if err := writeRegion(cw, "forbidden_area", i, region); err != nil {
			return err
		}
	}
	for i, p := range m.HomeLocation {
		if err := writePoint(cw, "home_location", i, "", p); err != nil {
			return err
		}
	}

	for _, v := range m.Vehicles {
		rec := []string{"vehicle", strconv.Itoa(v.ID), v.Name, "", "", "",
			fmt.Sprintf("type=%s max_speed=%s", v.Type, formatFloat(v.MaxSpeed))}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	for _, t := range m.Tasks {
		rec := []string{"task", strconv.Itoa(t.ID), "", "", "", "",
			fmt.Sprintf("vehicle=%d grids=%d start=%d end=%d", t.AssignedVehicleID, len(t.TreatmentGrids), t.StartTime, t.EndTime)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	for _, c := range m.Commands {
		rec := []string{"command", strconv.Itoa(c.ID), "", "", "", "",
			fmt.Sprintf("type=%d vehicle=%d start=%d params=%s", c.TypeID, c.RelatedTask.AssignedVehicleID, c.StartTime, formatParams(c.Params))}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportMissionCSV writes the audit record into the archive directory.
func (a *FileArchiver) ExportMissionCSV(requestID int, m *model.Mission) error {
	var buf bytes.Buffer
	if err := WriteMissionCSV(&buf, m); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	return a.write("mission", requestID, m.ID, 0, "csv", buf.Bytes())
}

func writeRegion(cw *csv.Writer, section string, index int, region model.Region) error {
	for _, p := range region.Area {
		if err := writePoint(cw, section, index, "", p); err != nil {
			return err
		}
	}
	return nil
}

func writePoint(cw *csv.Writer, section string, index int, name string, p model.Position) error {
	return cw.Write([]string{
		section, strconv.Itoa(index), name,
		formatFloat(p.Latitude), formatFloat(p.Longitude), formatFloat(p.Altitude), "",
	})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatParams(params []float64) string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = formatFloat(p)
	}
	return strings.Join(out, ";")
}
