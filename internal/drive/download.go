package drive

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teilen/drivetasks/internal/logging"
	"github.com/teilen/drivetasks/internal/taskerror"
)

const (
	// DefaultDownloadDir is where DownloadByName writes when no directory
	// is given.
	DefaultDownloadDir = "outputs"

	// dateSuffixLayout renders the optional _YYYYMMDDHHMMSS name suffix.
	dateSuffixLayout = "20060102150405"

	// progressLogStep is how many bytes pass between download progress lines.
	progressLogStep = 1 << 20
)

// progressWriter counts bytes written through it and emits a Debug line each
// time the total crosses another progressLogStep boundary.
type progressWriter struct {
	w      io.Writer
	name   string
	total  int64
	logged int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.total += int64(n)
	if p.total-p.logged >= progressLogStep {
		p.logged = p.total
		slog.Debug("download progress", logging.File(p.name), logging.Bytes(p.total))
	}
	return n, err
}

// isRawSpreadsheetName reports whether name refers to an already-exported
// spreadsheet file that should be downloaded byte-for-byte instead of being
// exported.
func isRawSpreadsheetName(name string) bool {
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls")
}

// localDownloadName decides the on-disk name for a download. Raw spreadsheet
// files keep their name, with the optional date suffix appended after the
// extension; native documents get the suffix followed by the .xlsx extension
// the export produces.
func localDownloadName(name string, withDate bool, now time.Time) string {
	suffix := ""
	if withDate {
		suffix = "_" + now.Format(dateSuffixLayout)
	}
	if isRawSpreadsheetName(name) {
		return name + suffix
	}
	return name + suffix + ".xlsx"
}

// DownloadByName resolves a file by its display name and writes it into the
// output directory. Files named *.xlsx or *.xls are fetched byte-for-byte;
// anything else is exported as XLSX. Returns the written path and size.
func (c *Client) DownloadByName(ctx context.Context, name string, options *DownloadOptions) (string, int64, error) {
	if name == "" {
		return "", 0, taskerror.New(taskerror.KindValidation, "file name is required")
	}

	opts := DownloadOptions{}
	if options != nil {
		opts = *options
	}
	if opts.Dir == "" {
		opts.Dir = DefaultDownloadDir
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	file, err := c.FindByName(ctx, name, "")
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", 0, taskerror.Wrap(taskerror.KindUnknown, "drive.download", err)
	}

	path := filepath.Join(opts.Dir, localDownloadName(name, opts.WithDate, clock()))
	out, err := os.Create(path)
	if err != nil {
		return "", 0, taskerror.Wrap(taskerror.KindUnknown, "drive.download", err)
	}

	progress := &progressWriter{w: out, name: name}
	var written int64
	if isRawSpreadsheetName(name) {
		written, err = c.Download(ctx, file.ID, progress)
	} else {
		written, err = c.Export(ctx, file.ID, XLSXMimeType, progress)
	}

	closeErr := out.Close()
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	if closeErr != nil {
		os.Remove(path)
		return "", 0, taskerror.Wrap(taskerror.KindUnknown, "drive.download", closeErr)
	}

	return path, written, nil
}
