// Package core exposes the single entry point of the contract analysis engine.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/assemble"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/classify"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/extract"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/ocr"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/schema"
	"github.com/joseph-ayodele/contracts-tracker/internal/utils"
)

// DocumentNamespace seeds the deterministic document IDs.
var DocumentNamespace = uuid.MustParse("3b0e6c2a-5f1d-5c7e-9a4b-2d8f0e6a1c35")

// Analyzer runs normalization, classification, extraction and assembly.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	logger *slog.Logger
	now    func() time.Time
	cfg    common.AnalysisConfig

	category     *classify.CategoryClassifier
	contractType *classify.ContractTypeClassifier
	dates        *extract.DateExtractor
	duration     *extract.DurationExtractor
	cancellation *extract.CancellationExtractor
	minimumTerm  *extract.MinimumTermExtractor
	autoRenewal  *extract.AutoRenewalDetector
	provider     *extract.ProviderExtractor
	cost         *extract.CostExtractor
	assembler    *assemble.Assembler
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock injects the clock used for "today"; it defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithConfig overrides the thresholds; zero values fall back to the component defaults.
func WithConfig(cfg common.AnalysisConfig) Option {
	return func(a *Analyzer) { a.cfg = cfg }
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: slog.Default(),
		now:    time.Now,
		cfg:    common.DefaultAnalysisConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.category = classify.NewCategoryClassifier(classify.CategoryConfig{
		CancellationThreshold: a.cfg.CancellationThreshold,
		InvoiceThreshold:      a.cfg.InvoiceThreshold,
		PreferLatestFuture:    a.cfg.PreferLatestFuture,
	}, a.logger)
	a.contractType = classify.NewContractTypeClassifier(a.cfg.MinTypeScore, a.logger)
	a.dates = extract.NewDateExtractor(extract.DefaultBounds(), a.logger)
	a.duration = extract.NewDurationExtractor(a.logger)
	a.cancellation = extract.NewCancellationExtractor(a.logger)
	a.minimumTerm = extract.NewMinimumTermExtractor(a.logger)
	a.autoRenewal = extract.NewAutoRenewalDetector(a.logger)
	a.provider = extract.NewProviderExtractor(a.cfg.MinProviderConfidence, a.logger)
	a.cost = extract.NewCostExtractor(a.logger)

	acfg := assemble.DefaultConfig()
	if a.cfg.MaxRollovers > 0 {
		acfg.MaxRollovers = a.cfg.MaxRollovers
	}
	a.assembler = assemble.New(acfg, a.logger)
	return a
}

// Analyze turns one document into an analysis result. Missing fields are nil,
// never errors; errors are reserved for invalid input, cancellation and internal failures.
func (a *Analyzer) Analyze(ctx context.Context, doc entity.RawDocument) (res *entity.AnalysisResult, err error) {
	logger := common.LoggerWithRequest(ctx, a.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.validateInput(doc); err != nil {
		logger.Warn("analyze.invalid_input", "filename", doc.Filename, "err", err)
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("analyze.panic", "filename", doc.Filename, "panic", r, "stack", string(debug.Stack()))
			res = nil
			err = common.NewAppError(common.CodeAnalysisFailed, fmt.Sprint(r), common.ErrInternal)
		}
	}()

	start := time.Now()
	now := a.now()
	result := a.run(doc, now)
	result.DocumentID = DocumentID(doc)
	result.Filename = doc.Filename
	result.AnalyzedAt = now

	if a.cfg.ValidateOutput {
		if err := validateOutput(&result); err != nil {
			logger.Error("analyze.invalid_output", "document_id", result.DocumentID, "err", err)
			return nil, err
		}
	}

	logger.Info("analyze.done",
		"document_id", result.DocumentID,
		"category", result.Category.Category,
		"contract_type", result.ContractType.Type,
		"data_source", result.DataSource(),
		"risk", result.RiskLevel,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &result, nil
}

// Respond wraps Analyze in the success/error envelope.
func (a *Analyzer) Respond(ctx context.Context, doc entity.RawDocument) entity.Response {
	res, err := a.Analyze(ctx, doc)
	if err != nil {
		return entity.Response{Success: false, Error: err.Error(), Code: common.GRPCCode(err).String()}
	}
	return entity.Response{Success: true, Result: res}
}

func (a *Analyzer) run(doc entity.RawDocument, now time.Time) entity.AnalysisResult {
	text := ocr.Normalize(strings.ToValidUTF8(doc.Text, ""))

	in := assemble.Input{
		Category:     a.category.Classify(text, now),
		ContractType: a.contractType.Classify(text, doc.Filename),
		Duration:     a.duration.Extract(text),
		Cancellation: a.cancellation.Extract(text),
		AutoRenewal:  a.autoRenewal.Detect(text),
		Provider:     a.provider.Extract(text, doc.Filename),
		Cost:         a.cost.Extract(text),
	}
	in.Dates = a.dates.Extract(text, in.ContractType.Type, in.Duration, now)

	var startDate *time.Time
	if in.Dates.Start != nil {
		v := in.Dates.Start.Value
		startDate = &v
	}
	in.MinimumTerm = a.minimumTerm.Extract(text, startDate)

	return a.assembler.Assemble(in, now)
}

func (a *Analyzer) validateInput(doc entity.RawDocument) error {
	v := common.NewValidator().
		Field("filename", doc.Filename, common.MaxLength(constants.MaxFilenameLength)).
		Field("text", doc.Text, common.MaxBytes(a.cfg.MaxTextBytes))
	if v.HasErrors() {
		return common.NewAppError(common.CodeInvalidInput, v.ErrorMessage(), common.ErrInvalidInput)
	}
	return nil
}

func validateOutput(res *entity.AnalysisResult) error {
	data, err := utils.ToJSON(res)
	if err != nil {
		return common.NewAppError(common.CodeInvalidOutput, "serialize result", err)
	}
	if err := schema.ValidateResult(data); err != nil {
		return common.NewAppError(common.CodeInvalidOutput, "result does not match schema", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}
	return nil
}

// DocumentID is a UUIDv5 of the text and filename, so identical input gets the same ID.
func DocumentID(doc entity.RawDocument) uuid.UUID {
	return uuid.NewSHA1(DocumentNamespace, []byte(doc.Text+"\x00"+doc.Filename))
}
