package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID    = "run_id"
	KeyStage    = "stage"
	KeyPath     = "path"
	KeyFile     = "file"
	KeyOutput   = "output"
	KeyPattern  = "pattern"
	KeyProvider = "provider"
	KeyModel    = "model"
	KeyWorker   = "worker"
	KeyCount    = "count"
	KeyTheme    = "theme"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr   { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func File(f string) slog.Attr     { return slog.String(KeyFile, f) }
func Output(o string) slog.Attr   { return slog.String(KeyOutput, o) }
func Pattern(p string) slog.Attr  { return slog.String(KeyPattern, p) }
func Provider(p string) slog.Attr { return slog.String(KeyProvider, p) }
func Model(m string) slog.Attr    { return slog.String(KeyModel, m) }
func Worker(id int) slog.Attr     { return slog.Int(KeyWorker, id) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }
func Theme(t string) slog.Attr    { return slog.String(KeyTheme, t) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
