package dialogue

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/metrics"
	"github.com/citygreen/mastersbot/core/telegram/netutil"
	"github.com/citygreen/mastersbot/internal/domain"
	"github.com/citygreen/mastersbot/internal/presentation"
)

// ErrNotUTF8 rejects an import file that is not UTF-8 text.
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// importColumns is the fixed row layout: category, name, price, contact.
const importColumns = 4

// ParseProviders reads rows of "category,name,price,contact" without a header.
// Quoting follows RFC 4180. Blank rows are skipped; every bad row adds a
// "Row N: ..." message, N being its line in the file. City is left empty.
func ParseProviders(data []byte) ([]domain.Provider, []string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, nil, ErrNotUTF8
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var (
		rows []domain.Provider
		errs []string
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				errs = append(errs, fmt.Sprintf("Row %d: %v", pe.StartLine, pe.Err))
				continue
			}
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		if blankRecord(rec) {
			continue
		}
		if len(rec) < importColumns {
			errs = append(errs, fmt.Sprintf("Row %d: not enough fields (%d of %d)", line, len(rec), importColumns))
			continue
		}
		p := domain.Provider{
			Category: strings.TrimSpace(rec[0]),
			Name:     strings.TrimSpace(rec[1]),
			Price:    strings.TrimSpace(rec[2]),
			Contact:  strings.TrimSpace(rec[3]),
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: category, name and contact must not be empty", line))
			continue
		}
		rows = append(rows, p)
	}
	return rows, errs, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func isCSV(doc *Document) bool {
	return doc != nil && strings.HasSuffix(strings.ToLower(doc.FileName), ".csv")
}

func (e *Engine) startImport(t *turn) error {
	e.sessions.Clear(t.ev.ChatID)
	return t.enter(StateImportFile, markdown(presentation.PromptImport, presentation.BackToMenu()))
}

func (e *Engine) importReprompt(t *turn) error {
	return t.reply(markdown(presentation.ExpectCSV, presentation.BackToMenu()))
}

// importFile processes a CSV attachment. Whatever happens once the file is
// accepted, the session ends.
func (e *Engine) importFile(t *turn) error {
	doc := t.ev.Document
	if !isCSV(doc) {
		return e.importReprompt(t)
	}
	defer e.sessions.Clear(t.ev.ChatID)

	logg := logger.SVCImport
	attrs := []slog.Attr{
		slog.String("file_name", logger.SanitizeLimit(doc.FileName, 64)),
		slog.Int64("bytes", doc.Size),
	}
	t.notify(plain(presentation.ImportReceived, nil))

	if doc.Size > e.importMax {
		logger.LogEvent(t.ctx, logg, slog.LevelWarn, "import.too_large", attrs...)
		return t.reply(markdown(presentation.ImportFailed(fmt.Sprintf("file is larger than %d bytes", e.importMax)), nil))
	}
	data, err := t.tr.Download(t.ctx, doc.FileID, e.importMax)
	if err != nil {
		logger.LogEvent(t.ctx, logg, slog.LevelError, "import.download_failed",
			append(attrs, slog.String("err", netutil.Redact(err)), slog.String("err_code", netutil.Kind(err)))...)
		reason := "download failed"
		if errors.Is(err, ErrFileTooLarge) {
			reason = fmt.Sprintf("file is larger than %d bytes", e.importMax)
		}
		return t.reply(markdown(presentation.ImportFailed(reason), nil))
	}

	rows, rowErrs, err := ParseProviders(data)
	if err != nil {
		logger.LogEvent(t.ctx, logg, slog.LevelWarn, "import.decode_failed",
			append(attrs, slog.String("err", err.Error()))...)
		return t.reply(markdown(presentation.ImportFailed(err.Error()), nil))
	}

	inserted := 0
	if len(rows) > 0 {
		inserted, err = e.store.BatchInsertProviders(t.ctx, rows)
		if err != nil {
			t.notify(markdown(presentation.ImportFailed("storage error"), nil))
			return fmt.Errorf("batch insert %d providers: %w", len(rows), err)
		}
	}
	metrics.ObserveImport(inserted, len(rowErrs))
	metrics.AddProvidersCreated("import", inserted)
	logger.LogEvent(t.ctx, logg, slog.LevelInfo, "import.done",
		append(attrs,
			slog.Int("rows", len(rows)+len(rowErrs)),
			slog.Int("inserted", inserted),
			slog.Int("row_errors", len(rowErrs)),
		)...)
	return t.reply(markdown(presentation.ImportReport(inserted, rowErrs), nil))
}
