// Package pipeline ties file discovery, text extraction, the completion
// service, and persistence into one sequential batch run.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/resume-parser/internal/common"
	"github.com/resume-parser/internal/extract"
	"github.com/resume-parser/internal/jsonio"
	"github.com/resume-parser/internal/llm"
	"github.com/resume-parser/internal/store"
)

// Config holds the run's paths and behavior flags. The credential is read
// from <JSONDir>/configuration/api_key.json at run time and handed to the
// completer factory; it is never assigned to process-wide state.
type Config struct {
	JSONDir      string // configuration root, also the default output root
	OutputDir    string // default <JSONDir>/parsed_resume
	StoreEnabled bool   // batch-insert parsed records into the document store
}

// Document statuses in a Summary.
const (
	StatusParsed  = "parsed"
	StatusSkipped = "skipped"
)

// DocumentResult records the outcome for one discovered document.
type DocumentResult struct {
	Name         string
	Format       string
	Path         string
	OutputPath   string
	FinishReason string
	Status       string
	Error        string
}

// Summary aggregates one batch run.
type Summary struct {
	RunID   string
	Results []DocumentResult
	Parsed  int
	Skipped int
	Stored  []string // identifiers returned by the batch insert, input order
}

// CompleterFactory builds a completion client from the credential loaded at
// run time.
type CompleterFactory func(apiKey string) llm.Completer

// Connector opens a scoped store connection; the returned close func must be
// deferred so disconnect runs on every exit path.
type Connector func(ctx context.Context, cfg store.Config) (store.Store, func(context.Context), error)

// Parser is the batch orchestrator.
type Parser struct {
	logger       *slog.Logger
	cfg          Config
	codec        *jsonio.Codec
	reader       *extract.Reader
	newCompleter CompleterFactory
	connect      Connector
}

func NewParser(logger *slog.Logger, cfg Config, codec *jsonio.Codec, reader *extract.Reader, newCompleter CompleterFactory, connect Connector) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.JSONDir, "parsed_resume")
	}
	return &Parser{
		logger:       logger,
		cfg:          cfg,
		codec:        codec,
		reader:       reader,
		newCompleter: newCompleter,
		connect:      connect,
	}
}

// Run executes one batch: load credential (fatal if missing), load the
// parsing format (fatal if missing), extract every document under dirs, then
// per document call the completion service and persist the response. A failed
// extraction is isolated: the document is recorded as skipped and no
// completion call is made for it. A failed completion call or a response that
// is not valid JSON aborts the remaining batch; output files already written
// stay on disk.
func (p *Parser) Run(ctx context.Context, dirs []string) (*Summary, error) {
	sum := &Summary{RunID: uuid.New().String()}

	apiKey, err := p.loadCredential()
	if err != nil {
		return sum, err
	}
	completer := p.newCompleter(apiKey)

	formatText, err := p.loadParsingFormat()
	if err != nil {
		return sum, err
	}

	docs, stats := p.reader.ReadAll(dirs)
	p.logger.Info("pipeline.extract.done",
		"run_id", sum.RunID,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return sum, common.NewFatal("OUTPUT_DIR", "cannot create output directory "+p.cfg.OutputDir, err)
	}

	var records []any
	for _, doc := range docs {
		res := DocumentResult{Name: doc.Name, Format: doc.Format, Path: doc.Path}

		if doc.Err != "" {
			// known-bad extraction: record it and move on without burning an
			// API call on degenerate input
			res.Status = StatusSkipped
			res.Error = doc.Err
			sum.Results = append(sum.Results, res)
			sum.Skipped++
			p.logger.Warn("pipeline.parse.skipped", "run_id", sum.RunID, "path", doc.Path, "reason", doc.Err)
			continue
		}

		p.logger.Info("pipeline.parse.start", "run_id", sum.RunID, "path", doc.Path)
		result, err := completer.Complete(ctx, llm.Request{
			Owner:         doc.Name,
			ResumeText:    doc.Text,
			ParsingFormat: formatText,
		})
		if err != nil {
			return sum, common.NewFatal("COMPLETE_FAILED", "completion service failed for "+doc.Path, err)
		}

		outPath := filepath.Join(p.cfg.OutputDir, doc.Name+".json")
		if err := p.codec.SaveRaw(outPath, result.Content); err != nil {
			return sum, common.NewFatal("OUTPUT_WRITE", "failed to write "+outPath, err)
		}
		res.OutputPath = outPath
		res.FinishReason = result.FinishReason

		// The raw response is on disk either way; a response that is not
		// valid JSON aborts the remaining batch.
		var record map[string]any
		if err := json.Unmarshal([]byte(result.Content), &record); err != nil {
			return sum, common.NewFatal("RESPONSE_INVALID", "completion response for "+doc.Path+" is not valid JSON", err)
		}
		records = append(records, record)

		res.Status = StatusParsed
		sum.Results = append(sum.Results, res)
		sum.Parsed++
		p.logger.Info("pipeline.parse.ok",
			"run_id", sum.RunID,
			"path", doc.Path,
			"output", outPath,
			"finish_reason", result.FinishReason,
		)
	}

	if p.cfg.StoreEnabled {
		if err := p.storeRecords(ctx, sum, records); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (p *Parser) loadCredential() (string, error) {
	path := filepath.Join(p.cfg.JSONDir, "configuration", "api_key.json")
	value, ok := p.codec.Load(path)
	if !ok {
		return "", common.NewFatal("CREDENTIAL_MISSING", "api key configuration not readable at "+path, nil)
	}
	apiKey, _ := value["api_key"].(string)
	if apiKey == "" {
		return "", common.NewFatal("CREDENTIAL_MISSING", "api_key is empty in "+path, nil)
	}
	return apiKey, nil
}

// loadParsingFormat loads the target schema as raw JSON. The format is an
// arbitrary JSON value, not necessarily an object, and re-indenting the raw
// bytes keeps its key order intact in the prompt.
func (p *Parser) loadParsingFormat() (string, error) {
	path := filepath.Join(p.cfg.JSONDir, "configuration", "parsing_format.json")
	data, ok := p.codec.LoadRaw(path)
	if !ok {
		return "", common.NewFatal("FORMAT_MISSING", "parsing format not readable at "+path, nil)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return "", common.NewFatal("FORMAT_INVALID", "cannot render parsing format", err)
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}

func (p *Parser) storeRecords(ctx context.Context, sum *Summary, records []any) error {
	cfgPath := filepath.Join(p.cfg.JSONDir, "configuration", "mongo_db.json")
	value, ok := p.codec.Load(cfgPath)
	if !ok {
		return common.NewFatal("STORE_CONFIG", "store configuration not readable at "+cfgPath, nil)
	}

	st, closeFn, err := p.connect(ctx, store.ConfigFromMap(value))
	if err != nil {
		return err
	}
	defer closeFn(ctx)

	if len(records) == 0 {
		p.logger.Warn("pipeline.store.empty", "run_id", sum.RunID)
		return nil
	}
	ids, err := st.InsertMany(ctx, records)
	if err != nil {
		return common.NewFatal("STORE_INSERT", "batch insert failed", err)
	}
	sum.Stored = ids
	p.logger.Info("pipeline.store.ok", "run_id", sum.RunID, "inserted", len(ids))
	return nil
}
