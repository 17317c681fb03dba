// reflow is a command-line tool for converting documents between paginated
// and flow-based formats.
//
// Text is read from the source, its layout is reconstructed and it is laid
// out again in the target format. Each source page is labelled in the output.
//
// Usage:
//
//	reflow -input document.pdf -output document.docx [options]
//	reflow -to pdf -out-dir ./converted [options] file1.docx file2.html ...
//
// Input options:
//
//	-input string     Path of the document to convert
//	-output string    Output path; the target format is taken from its extension
//	-from string      Source format, detected from the content when empty
//	-to string        Target format for batch mode (pdf, docx, pptx, xlsx, hocr)
//	-out-dir string   Directory receiving batch mode output
//
// Processing options:
//
//	-config string    YAML file with layout options
//	-metrics string   Font metrics backend, core or gofont
//	-markup-headers   Label the pages of DOCX and HTML sources too
//	-jobs int         Conversions run at once in batch mode (default 4)
//	-debug            Outline placed blocks in PDF output and log each page
//	-quiet            Do not print warnings
//	-overwrite        Overwrite output files that already exist
//
// Examples:
//
// Convert a PDF into a Word document:
//
//	reflow -input report.pdf -output report.docx
//
// Lay out several HTML pages as PDF with the Go fonts:
//
//	reflow -to pdf -metrics gofont -out-dir ./pdf page1.html page2.html
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gardar/reflow/pkg/reflow"
)

// loadOptions reads a YAML file over the default options
func loadOptions(path string) (reflow.Options, error) {
	opts := reflow.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing %s: %w", path, err)
	}
	return opts, nil
}

// job is one file to convert.
type job struct {
	input  string
	output string
	from   reflow.Format
	to     reflow.Format
}

func main() {
	inputPath := flag.String("input", "", "Path of the document to convert")
	outputPath := flag.String("output", "", "Output path; the target format is taken from its extension")
	fromName := flag.String("from", "", "Source format, detected from the content when empty")
	toName := flag.String("to", "", "Target format for batch mode")
	outDir := flag.String("out-dir", "", "Directory receiving batch mode output")
	configPath := flag.String("config", "", "Path to a YAML file with layout options")
	metricsName := flag.String("metrics", "", "Font metrics backend (core or gofont)")
	markupHeaders := flag.Bool("markup-headers", false, "Label the pages of DOCX and HTML sources too")
	jobs := flag.Int("jobs", 4, "Number of conversions run at once in batch mode")
	debug := flag.Bool("debug", false, "Enable debug mode")
	quiet := flag.Bool("quiet", false, "Do not print warnings")
	overwrite := flag.Bool("overwrite", false, "Overwrite output files that already exist")
	flag.Parse()

	opts, err := loadOptions(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *metricsName != "" {
		opts.Metrics = *metricsName
	}
	if *markupHeaders {
		opts.Headers.Markup = true
	}
	if *debug {
		opts.Debug = true
	}
	if *quiet {
		opts.LogWarnings = false
	}
	opts.Logger = os.Stderr

	var from reflow.Format
	if *fromName != "" {
		if from, err = reflow.ParseFormat(*fromName); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	var todo []job
	switch {
	case *inputPath != "":
		if *outputPath == "" {
			fmt.Println("Error: Must provide -output with -input")
			flag.PrintDefaults()
			os.Exit(1)
		}
		to, err := reflow.ParseFormat(*outputPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		todo = append(todo, job{input: *inputPath, output: *outputPath, from: from, to: to})
	case flag.NArg() > 0:
		if *toName == "" || *outDir == "" {
			fmt.Println("Error: Batch mode needs -to and -out-dir")
			flag.PrintDefaults()
			os.Exit(1)
		}
		to, err := reflow.ParseFormat(*toName)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			fmt.Printf("Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
		for _, in := range flag.Args() {
			base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			out := filepath.Join(*outDir, base+"."+string(to))
			todo = append(todo, job{input: in, output: out, from: from, to: to})
		}
	default:
		fmt.Println("Error: Must provide -input or a list of files")
		flag.PrintDefaults()
		os.Exit(1)
	}

	for _, j := range todo {
		if _, err := os.Stat(j.output); err == nil && !*overwrite {
			fmt.Printf("Output file %s already exists. Use -overwrite to overwrite.\n", j.output)
			os.Exit(1)
		}
	}

	// Conversions share no state, so files run in parallel.
	var g errgroup.Group
	g.SetLimit(max(*jobs, 1))
	for _, j := range todo {
		g.Go(func() error {
			if err := convertFile(j, opts); err != nil {
				return fmt.Errorf("%s: %w", j.input, err)
			}
			fmt.Println("Converted:", j.input, "->", j.output)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// convertFile reads, converts and writes one document.
func convertFile(j job, opts reflow.Options) error {
	src, err := os.ReadFile(j.input)
	if err != nil {
		return err
	}
	from := j.from
	if from == "" {
		if from, err = reflow.DetectFormat(src); err != nil {
			return err
		}
	}
	out, err := reflow.Convert(src, from, j.to, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(j.output, out, 0o666)
}
