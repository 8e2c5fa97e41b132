// Package report writes the payment incidents to spreadsheets for the owner.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/tealeg/xlsx"
)

const (
	SheetName   = "Incidents"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
	filePrefix = "incidents_"
)

var headers = []string{
	"ID", "Kind", "OrderID", "PaymentID", "RefundID", "EventType", "Detail", "Resolved", "CreatedAt",
}

type IncidentSource interface {
	ListIncidents(ctx context.Context, unresolvedOnly bool) ([]models.PaymentIncident, error)
}

// WriteIncidents writes one header row and one row per incident.
func WriteIncidents(w io.Writer, incidents []models.PaymentIncident) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range headers {
		header.AddCell().SetValue(h)
	}

	for _, in := range incidents {
		row := sheet.AddRow()
		row.AddCell().SetValue(in.ID)
		row.AddCell().SetValue(string(in.Kind))
		row.AddCell().SetValue(deref(in.OrderID))
		row.AddCell().SetValue(deref(in.ProviderPaymentID))
		row.AddCell().SetValue(deref(in.ProviderRefundID))
		row.AddCell().SetValue(in.EventType)
		row.AddCell().SetValue(in.Detail)
		row.AddCell().SetValue(in.Resolved)
		row.AddCell().SetValue(in.CreatedAt.Format(timeLayout))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Exporter saves the open incidents to dir once a day and prunes old exports.
type Exporter struct {
	source    IncidentSource
	dir       string
	retention time.Duration
	log       *slog.Logger
	now       func() time.Time
}

func NewExporter(source IncidentSource, dir string, retention time.Duration, log *slog.Logger) *Exporter {
	return &Exporter{
		source:    source,
		dir:       dir,
		retention: retention,
		log:       log.With("component", "report"),
		now:       time.Now,
	}
}

// NextRun returns the first hour:min strictly after now, in now's location.
func NextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunDaily exports at hour:min every day until ctx is done.
func (e *Exporter) RunDaily(ctx context.Context, hour, min int) {
	for {
		next := NextRun(e.now(), hour, min)
		e.log.Info("next incident export scheduled", "at", next.Format(timeLayout))

		timer := time.NewTimer(next.Sub(e.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if path, err := e.ExportOnce(ctx); err != nil {
			e.log.Error("incident export failed", "error", err)
		} else {
			e.log.Info("incidents exported", "path", path)
		}
		e.Cleanup()
	}
}

// ExportOnce writes the unresolved incidents to a timestamped file in dir.
func (e *Exporter) ExportOnce(ctx context.Context) (string, error) {
	incidents, err := e.source.ListIncidents(ctx, true)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(e.dir, filePrefix+e.now().Format("2006-01-02_15-04-05")+".xlsx")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := WriteIncidents(f, incidents); err != nil {
		return "", err
	}
	return path, f.Sync()
}

// Cleanup removes exports older than the retention period.
func (e *Exporter) Cleanup() {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		e.log.Error("read export dir", "error", err)
		return
	}

	cutoff := e.now().Add(-e.retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(e.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				e.log.Error("remove old export", "path", path, "error", err)
			} else {
				e.log.Info("removed old export", "path", path)
			}
		}
	}
}
