package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pterm/pterm"
)

// ProgressEmitter reports the stages of a long-running command.
//
// Implementations include:
// - CLIEmitter: Pretty-printed terminal output using pterm
// - JSONEmitter: Structured JSON events, one per line
type ProgressEmitter interface {
	EmitStage(stage string, message string)
	EmitProgress(count int, metadata map[string]interface{})
	EmitComplete(summary map[string]interface{})
	EmitWarning(message string)
	EmitError(stage string, err error)
	EmitInfo(message string)
}

// ProgressEvent represents a structured JSON progress event
type ProgressEvent struct {
	Type      string                 `json:"type"`      // "stage", "progress", "complete", "warning", "error", "info"
	Timestamp time.Time              `json:"timestamp"` // When this event occurred
	Data      map[string]interface{} `json:"data"`      // Event-specific data
}

// CLIEmitter outputs pretty-printed progress to a terminal using pterm.
// Progress goes to its own writer (normally stderr) so results on stdout
// stay machine-readable.
type CLIEmitter struct {
	w         io.Writer
	verbosity int
}

// NewCLIEmitter creates a CLI progress emitter writing to w
func NewCLIEmitter(w io.Writer, verbosity int) *CLIEmitter {
	return &CLIEmitter{w: w, verbosity: verbosity}
}

// EmitStage prints a stage announcement
func (e *CLIEmitter) EmitStage(stage string, message string) {
	pterm.Fprintln(e.w, pterm.Sprintf("%s: %s", pterm.LightCyan(stage), message))
}

// EmitProgress prints a count, labelled by metadata["type"] when present
func (e *CLIEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	itemType, ok := metadata["type"].(string)
	if !ok {
		itemType = "items"
	}
	pterm.Fprintln(e.w, pterm.Sprintf("Processed %s %s", pterm.Green(fmt.Sprintf("%d", count)), itemType))
}

// EmitComplete prints completion summary; details only when verbose
func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	pterm.Success.WithWriter(e.w).Println("Done")
	if e.verbosity >= 1 {
		keys := make([]string, 0, len(summary))
		for k := range summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			pterm.Fprintln(e.w, pterm.Sprintf("  %s: %v", key, summary[key]))
		}
	}
}

// EmitWarning prints a warning
func (e *CLIEmitter) EmitWarning(message string) {
	pterm.Warning.WithWriter(e.w).Println(message)
}

// EmitError prints an error
func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.WithWriter(e.w).Printf("Error in %s: %v\n", stage, err)
}

// EmitInfo prints informational message when verbose
func (e *CLIEmitter) EmitInfo(message string) {
	if e.verbosity >= 1 {
		pterm.Info.WithWriter(e.w).Println(message)
	}
}

// JSONEmitter outputs structured JSON events
type JSONEmitter struct {
	encoder *json.Encoder
	now     func() time.Time
}

// NewJSONEmitter creates a JSON progress emitter writing to w
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{
		encoder: json.NewEncoder(w),
		now:     time.Now,
	}
}

func (e *JSONEmitter) emit(eventType string, data map[string]interface{}) {
	e.encoder.Encode(ProgressEvent{
		Type:      eventType,
		Timestamp: e.now(),
		Data:      data,
	})
}

// EmitStage emits a stage event as JSON
func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{
		"stage":   stage,
		"message": message,
	})
}

// EmitProgress emits a progress event as JSON
func (e *JSONEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	data := map[string]interface{}{
		"count": count,
	}
	for k, v := range metadata {
		data[k] = v
	}
	e.emit("progress", data)
}

// EmitComplete emits a completion event as JSON
func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

// EmitWarning emits a warning event as JSON
func (e *JSONEmitter) EmitWarning(message string) {
	e.emit("warning", map[string]interface{}{"message": message})
}

// EmitError emits an error event as JSON
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}

// EmitInfo emits an informational event as JSON
func (e *JSONEmitter) EmitInfo(message string) {
	e.emit("info", map[string]interface{}{"message": message})
}

// Table renders rows with a header line using pterm.
func Table(w io.Writer, header []string, rows [][]string) error {
	data := append(pterm.TableData{header}, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(w, out)
	return nil
}
