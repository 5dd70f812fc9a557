package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/assemble"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

const sheet = "Verträge"

// Row is one analysed file; Err is set instead of Result when analysis failed.
type Row struct {
	Source string
	Result *entity.AnalysisResult
	Err    string
}

var headers = []string{
	"Datei",
	"Kategorie",
	"Vertragsart",
	"Anbieter",
	"Beginn",
	"Ende",
	"Datenquelle",
	"Kündigungsfrist",
	"Nächste Kündigung",
	"Verlängerung",
	"Kosten",
	"Risiko",
	"Fehler",
}

// Service produces XLSX bytes for batch results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportContractsXLSX returns an XLSX workbook (as bytes) with one row per analysed file.
func (s *Service) ExportContractsXLSX(ctx context.Context, rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close.failed", "err", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	riskStyles, err := newRiskStyles(f)
	if err != nil {
		return nil, err
	}

	row := 2
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Source)
		if r.Result == nil {
			write(13, truncate(r.Err, 200))
			row++
			continue
		}
		res := r.Result

		write(2, string(res.Category.Category))
		write(3, string(res.ContractType.Type))
		if res.Provider != nil {
			write(4, res.Provider.DisplayName)
		}
		if res.StartDate != nil {
			write(5, res.StartDate.Value.Format(dates.Layout))
		}
		if res.EndDate != nil {
			write(6, res.EndDate.Value.Format(dates.Layout))
		}
		write(7, string(res.DataSource()))
		if res.CancellationPeriod != nil {
			write(8, assemble.FormatNotice(res.CancellationPeriod))
		}
		if res.NextCancellationDate != nil {
			write(9, res.NextCancellationDate.Format(dates.Layout))
		}
		if res.AutoRenewal.Active {
			write(10, "Ja")
		} else {
			write(10, "Nein")
		}
		if res.Cost != nil {
			write(11, assemble.FormatAmount(res.Cost))
		}
		write(12, string(res.RiskLevel))
		if style, ok := riskStyles[res.RiskLevel]; ok {
			cell, _ := excelize.CoordinatesToCellName(12, row)
			_ = f.SetCellStyle(sheet, cell, cell, style)
		}
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 36) // file
	_ = f.SetColWidth(sheet, "B", "C", 26) // category, type
	_ = f.SetColWidth(sheet, "D", "D", 28) // provider
	_ = f.SetColWidth(sheet, "E", "G", 14) // dates, source
	_ = f.SetColWidth(sheet, "H", "H", 30) // notice
	_ = f.SetColWidth(sheet, "I", "L", 16)
	_ = f.SetColWidth(sheet, "M", "M", 48) // error
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func newRiskStyles(f *excelize.File) (map[constants.RiskLevel]int, error) {
	colors := map[constants.RiskLevel]string{
		constants.RiskMedium: "FFE699",
		constants.RiskHigh:   "F4B084",
	}
	styles := make(map[constants.RiskLevel]int, len(colors))
	for level, color := range colors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return nil, fmt.Errorf("xlsx style: %w", err)
		}
		styles[level] = id
	}
	return styles, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
