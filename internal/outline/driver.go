package outline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

const (
	DefaultInputPath  = "outline.txt"
	DefaultOutputPath = "chapters.txt"
)

// Report describes one driver run.
type Report struct {
	InputPath  string    `json:"input_path"`  // absolute
	OutputPath string    `json:"output_path"` // absolute; empty for List
	Count      int       `json:"count"`
	Chapters   []Chapter `json:"chapters"`
}

// Driver wires an outline file to the extractor. The zero value reads
// outline.txt and writes chapters.txt in the working directory.
type Driver struct {
	Input   string
	Output  string
	Options Options
	Log     *slog.Logger
}

// Run extracts chapters from the input file, writes them to the output file
// and prints the input path, the chapter count and the output path to w.
// An unreadable input is reported through the logger and treated as an empty
// outline; only a failure to write the output is returned.
func (d *Driver) Run(w io.Writer) (Report, error) {
	rep := d.extract()
	fmt.Fprintf(w, "Processing outline file: %s\n", rep.InputPath)
	fmt.Fprintf(w, "Found %d chapters\n", rep.Count)

	output := d.Output
	if output == "" {
		output = DefaultOutputPath
	}
	if err := WriteFile(output, rep.Chapters); err != nil {
		return rep, err
	}
	rep.OutputPath = absPath(output)
	fmt.Fprintf(w, "Wrote %d chapters to: %s\n", rep.Count, rep.OutputPath)
	return rep, nil
}

// List extracts chapters from the input file and prints them to w without
// writing an output file.
func (d *Driver) List(w io.Writer) (Report, error) {
	rep := d.extract()
	if _, err := fmt.Fprintln(w, "Extracted chapters:"); err != nil {
		return rep, err
	}
	return rep, Write(w, rep.Chapters)
}

func (d *Driver) extract() Report {
	input := d.Input
	if input == "" {
		input = DefaultInputPath
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	chapters := ExtractFromPath(input, d.Options, log)
	return Report{
		InputPath: absPath(input),
		Count:     len(chapters),
		Chapters:  chapters,
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
