package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"picklist/internal"
	"picklist/internal/config"
	"picklist/internal/logging"
	"picklist/internal/pipeline"
	"picklist/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "doc:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "source document path")
		inType := fs.String("type", "", "pdf|xlsx|html|eml (default: by extension)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		kind := *inType
		if kind == "" {
			kind, err = pipeline.KindFromFilename(*input)
			must(err)
		}
		blob, err := os.ReadFile(*input)
		must(err)
		intake := pipeline.NewIntakeService(db, cfg.RawDocDir)
		doc, err := intake.Store(filepath.Base(*input), kind, blob)
		must(err)
		fmt.Printf("document stored id=%d kind=%s\n", doc.ID, doc.Kind)
	case "doc:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		docID := fs.Int("id", 0, "specific document id")
		batch := fs.Int("batch", 20, "batch size for pending documents")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg)
		if *docID != 0 {
			doc, err := db.MustDocumentByID(*docID)
			must(err)
			res, err := processor.ProcessDocument(doc)
			reportRun(res, err)
			return
		}
		processed, err := processor.ProcessPending(*batch)
		must(err)
		fmt.Printf("processed pending documents=%d\n", processed)
	case "doc:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		status := fs.String("status", "", "filter by status (stored|processed|failed)")
		limit := fs.Int("limit", 50, "max documents to list")
		_ = fs.Parse(os.Args[2:])
		var docs []internal.DocumentRow
		if *status != "" {
			docs, err = db.ListDocumentsByStatus(*status, *limit)
		} else {
			docs, err = db.ListDocuments(*limit)
		}
		must(err)
		for _, doc := range docs {
			fmt.Printf("id=%d status=%s kind=%s file=%s updated=%s\n", doc.ID, doc.Status, doc.Kind, doc.Filename, doc.UpdatedAt)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		docID := fs.Int("docId", 0, "internal document id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *docID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--docId and --out are required"))
		}
		processor := pipeline.NewProcessingService(db, cfg)
		rows, header, err := processor.ExportRows(*docID)
		must(err)
		must(pipeline.RenderXLSXToFile(rows, header, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "source document path")
		inType := fs.String("type", "", "pdf|xlsx|html|eml (default: by extension)")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		kind := *inType
		if kind == "" {
			kind, err = pipeline.KindFromFilename(*input)
			must(err)
		}

		ext, err := pipeline.ExtractFromInput(kind, *input)
		must(err)
		if kind == "pdf" && !ext.Detect.IsPickingList {
			must(fmt.Errorf("%s does not look like a picking list (score %.2f)", *input, ext.Detect.Score))
		}
		result, err := pipeline.Run(ext.Rows)
		if errors.Is(err, pipeline.ErrNoDataRows) {
			must(fmt.Errorf("no picking rows found; check that %s is a valid picking list", *input))
		}
		must(err)
		rows := pipeline.FormatRecords(result.Records)
		must(pipeline.RenderXLSXToFile(rows, ext.Header, *output))
		fmt.Printf("run done rows=%d duplicates=%d skipped=%d output=%s\n",
			len(rows), result.Summary.Duplicates, result.Summary.Skipped, *output)
	default:
		usage()
		os.Exit(1)
	}
}

func reportRun(res pipeline.ProcessResult, err error) {
	if errors.Is(err, pipeline.ErrNoDataRows) {
		fmt.Fprintf(os.Stderr, "document id=%d: nothing to process (no picking rows)\n", res.DocumentID)
		os.Exit(1)
	}
	must(err)
	fmt.Printf("processed document id=%d consolidated=%d duplicates=%d skipped=%d\n",
		res.DocumentID, res.Summary.Consolidated, res.Summary.Duplicates, res.Summary.Skipped)
}

func usage() {
	fmt.Println("usage: picklist <command>")
	fmt.Println("commands:")
	fmt.Println("  doc:add --input=list.pdf [--type=pdf|xlsx|html|eml]")
	fmt.Println("  doc:process [--id=1] [--batch=20]")
	fmt.Println("  doc:list [--status=stored|processed|failed] [--limit=50]")
	fmt.Println("  export:xlsx --docId=1 --out=./out/picking.xlsx")
	fmt.Println("  run --input=list.pdf --output=./out/picking.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
