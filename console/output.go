package console

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sagarc03/bucketctl"
)

// TimeLayout is the last-modified layout used by the human listing.
const TimeLayout = "2006-01-02 15:04:05-07:00"

// nameWidth is the padded width of the object name column.
const nameWidth = 60

// Formatter formats results for output.
type Formatter interface {
	FormatList(w io.Writer, bucket string, entries []bucketctl.ObjectEntry) error
	FormatUpload(w io.Writer, result *bucketctl.UploadResult) error
	FormatDownload(w io.Writer, result *bucketctl.DownloadResult) error
	FormatError(w io.Writer, err error) error
	FormatMessage(w io.Writer, msg string) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct{}

// FormatList prints a numbered listing starting at 1.
func (f *HumanFormatter) FormatList(w io.Writer, _ string, entries []bucketctl.ObjectEntry) error {
	_, _ = fmt.Fprintln(w, "Files in bucket:")
	for i := range entries {
		e := &entries[i]
		_, _ = fmt.Fprintf(w, "%d %-*s %s %d\n",
			i+1,
			nameWidth,
			e.Name,
			e.LastModified.Format(TimeLayout),
			e.Size,
		)
	}
	return nil
}

// FormatUpload formats an upload result as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, result *bucketctl.UploadResult) error {
	_, _ = fmt.Fprintf(w, "%s was successfully uploaded as %s\n", result.LocalPath, result.ObjectName)
	return nil
}

// FormatDownload formats a download result as human-readable text.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *bucketctl.DownloadResult) error {
	_, _ = fmt.Fprintf(w, "File %s downloaded successfully.\n", result.ObjectName)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatMessage prints an informational line as is.
func (f *HumanFormatter) FormatMessage(w io.Writer, msg string) error {
	_, _ = fmt.Fprintln(w, msg)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatList formats a listing as JSON. Indexes are 1-based to match the
// download prompt.
func (f *JSONFormatter) FormatList(w io.Writer, bucket string, entries []bucketctl.ObjectEntry) error {
	type jsonEntry struct {
		Index int `json:"index"`
		bucketctl.ObjectEntry
	}

	output := struct {
		Bucket  string      `json:"bucket"`
		Objects []jsonEntry `json:"objects"`
	}{
		Bucket:  bucket,
		Objects: make([]jsonEntry, len(entries)),
	}

	for i := range entries {
		output.Objects[i] = jsonEntry{Index: i + 1, ObjectEntry: entries[i]}
	}

	return writeJSON(w, output)
}

// FormatUpload formats an upload result as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result *bucketctl.UploadResult) error {
	return writeJSON(w, result)
}

// FormatDownload formats a download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *bucketctl.DownloadResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatMessage formats an informational line as JSON.
func (f *JSONFormatter) FormatMessage(w io.Writer, msg string) error {
	output := struct {
		Message string `json:"message"`
	}{
		Message: msg,
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// MaskSecret masks a secret string, showing only first 4 and last 4 characters.
// If the secret is too short, returns all asterisks.
func MaskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
