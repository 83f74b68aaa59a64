// Package analysis is the single entry point of the contract analysis
// pipeline.  It sequences the analyzer stages, fans per-clause work out over
// a worker pool, assembles the nine-section result and emits the audit trail.
package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/ContractLens/internal/application/audit"
	"github.com/turtacn/ContractLens/internal/config"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractLens/internal/infrastructure/storage/minio"
	"github.com/turtacn/ContractLens/internal/intelligence/analyzer"
	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/internal/intelligence/common"
	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// ---------------------------------------------------------------------------
// Request / response
// ---------------------------------------------------------------------------

// AnalyzeRequest is one contract submitted for analysis.
type AnalyzeRequest struct {
	Text         string `json:"text"`
	Language     string `json:"language,omitempty"`
	BusinessRole string `json:"business_role,omitempty"`
	// RequestID is generated when empty.
	RequestID string `json:"request_id,omitempty"`
	// Source names the surface the request came through (http, cli, mcp).
	Source string `json:"source,omitempty"`
	// Export stores the finished result in the exports bucket.
	Export bool `json:"export,omitempty"`
}

// AnalyzeResponse wraps the finished result with run metadata.
type AnalyzeResponse struct {
	RequestID string                   `json:"request_id"`
	Result    *contract.AnalysisResult `json:"result"`
	Audit     *audit.Record            `json:"audit"`
	Duration  time.Duration            `json:"-"`
	ReportKey string                   `json:"report_key,omitempty"`
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// Translator turns Hindi contract text into English.
type Translator interface {
	TranslateToEnglish(ctx context.Context, text string) (string, error)
}

// Publisher announces finished runs.  Failures never fail the run.
type Publisher interface {
	Publish(ctx context.Context, resp *AnalyzeResponse) error
}

// ReportStore keeps exported results.
type ReportStore interface {
	SaveReport(ctx context.Context, requestID string, result *contract.AnalysisResult) (*minio.UploadResult, error)
}

// Service analyses contracts.
type Service interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error)
	Catalog() *catalog.Catalog
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

// Option configures the service.
type Option func(*service)

func WithTranslator(t Translator) Option { return func(s *service) { s.translator = t } }

// WithExplainer enables the optional one-sentence clause explanation.
func WithExplainer(e analyzer.Explainer) Option { return func(s *service) { s.explainer = e } }

func WithPublisher(p Publisher) Option { return func(s *service) { s.publisher = p } }

func WithReportStore(r ReportStore) Option { return func(s *service) { s.reports = r } }

func WithLogger(l logging.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *prometheus.AppMetrics) Option { return func(s *service) { s.metrics = m } }

type service struct {
	cat *catalog.Catalog
	cfg config.AnalysisConfig

	normalizer  *analyzer.Normalizer
	segmenter   *analyzer.Segmenter
	matcher     *analyzer.TemplateMatcher
	classifier  *analyzer.Classifier
	risk        *analyzer.RiskAnalyzer
	suggestions *analyzer.SuggestionGenerator
	summary     *analyzer.SummaryComposer
	pool        common.BatchProcessor[contract.Clause, clauseOutcome]

	translator Translator
	explainer  analyzer.Explainer
	publisher  Publisher
	reports    ReportStore
	log        logging.Logger
	metrics    *prometheus.AppMetrics
	now        func() time.Time
}

// NewService wires the pipeline over a compiled catalog.  cfg must already
// carry defaults.
func NewService(cat *catalog.Catalog, cfg config.AnalysisConfig, opts ...Option) Service {
	s := &service{
		cat: cat,
		cfg: cfg,
		log: logging.NewNopLogger(),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.normalizer = analyzer.NewNormalizer(cfg.MaxInputChars)
	s.segmenter = analyzer.NewSegmenter(cfg.PreviewChars)
	s.matcher = analyzer.NewTemplateMatcher(cfg.TopN, cfg.MatchThreshold)
	s.classifier = analyzer.NewClassifier(cat, s.explainer)
	s.risk = analyzer.NewRiskAnalyzer(cat)
	s.suggestions = analyzer.NewSuggestionGenerator(cat)
	s.summary = analyzer.NewSummaryComposer(cat)
	s.pool = common.NewBatchProcessor[contract.Clause, clauseOutcome](
		common.WithMaxConcurrency(cfg.Workers),
		common.WithItemTimeout(cfg.ClauseTimeout),
		common.WithBatchTimeout(cfg.RunTimeout),
		common.WithBatchMetrics(s.metrics),
		common.WithBatchLogger(s.log.Named("pool")),
	)
	return s
}

func (s *service) Catalog() *catalog.Catalog { return s.cat }

// clauseOutcome is the per-clause product of the worker pool.
type clauseOutcome struct {
	analysis   contract.ClauseAnalysis
	risk       contract.RiskEntry
	explainErr error
}

// run carries the mutable state of one Analyze call.
type run struct {
	req    *AnalyzeRequest
	lang   contract.Language
	log    logging.Logger
	record *audit.Record
}

// degrade records a stage fallback.  clauseNumber is 0 for document-level
// stages.
func (r *run) degrade(m *prometheus.AppMetrics, stage string, clauseNumber int, detail string) {
	entry := stage + ": " + detail
	if clauseNumber > 0 {
		entry = fmt.Sprintf("%s: clause %d: %s", stage, clauseNumber, detail)
	}
	r.record.Degradations = append(r.record.Degradations, entry)
	prometheus.RecordStageDegradation(m, stage)
	r.log.Warn("stage degraded",
		logging.String("stage", stage),
		logging.Int("clause_number", clauseNumber),
		logging.String("detail", detail))
}

// Analyze runs the whole pipeline.  It returns a complete result or an
// error, never a partial result.
func (s *service) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	start := s.now()
	if req == nil {
		return nil, errors.InputError("analyze request is nil")
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	ctx = logging.WithRequestID(ctx, requestID)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	r := &run{
		req:    req,
		log:    s.log.WithContext(ctx).With(logging.String("source", req.Source)),
		record: audit.NewRecord(requestID, req.Source, strings.TrimSpace(req.BusinessRole), start),
	}
	r.record.InputSHA256 = audit.HashInput(req.Text)

	result, err := s.analyze(ctx, r)
	elapsed := s.now().Sub(start)
	if err != nil {
		outcome := "failure"
		if errors.IsInputError(err) {
			outcome = "input_error"
		}
		prometheus.RecordAnalysisRun(s.metrics, outcome, elapsed)
		r.log.Warn("analysis failed", logging.Err(err), logging.Duration("duration", elapsed))
		return nil, err
	}
	prometheus.RecordAnalysisRun(s.metrics, "success", elapsed)

	resp := &AnalyzeResponse{RequestID: requestID, Result: result, Audit: r.record, Duration: elapsed}
	s.export(ctx, r, resp)
	s.publish(ctx, r, resp)

	r.log.Info("analysis completed",
		logging.String("contract_type", result.ContractOverview.ContractType),
		logging.Int("clause_count", len(result.Clauses.Clauses)),
		logging.Int("risk_score", result.RiskScore.Composite),
		logging.Int("degradations", len(r.record.Degradations)),
		logging.Duration("duration", elapsed))
	return resp, nil
}

func (s *service) analyze(ctx context.Context, r *run) (*contract.AnalysisResult, error) {
	lang, err := contract.ParseLanguage(r.req.Language)
	if err != nil {
		return nil, err
	}
	r.lang = lang

	text, err := s.normalizer.Normalize(r.req.Text)
	if err != nil {
		return nil, err
	}
	if lang == contract.LanguageHindi {
		text = s.translate(ctx, r, text)
	}

	domain, overview := analyzer.DetectContractType(s.cat, text)
	seg := s.segmenter.Segment(text)
	r.record.SegmentationMode = seg.Mode
	if seg.Mode == contract.SegmentationSingle {
		r.degrade(s.metrics, "segmentation", 0, errors.New(errors.ErrCodeSegmentationDegraded,
			"no clause boundaries found").Error())
	}

	var (
		entities  contract.Entities
		ambiguity []contract.AmbiguityFlag
		outcomes  *common.BatchResult[clauseOutcome]
		degraded  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entities, degraded = analyzer.ExtractEntities(text)
		return nil
	})
	g.Go(func() error {
		ambiguity = analyzer.DetectAmbiguity(s.cat, text)
		return nil
	})
	g.Go(func() error {
		var err error
		outcomes, err = s.pool.Process(gctx, seg.Clauses, s.clauseStage(s.cat.TemplatesFor(domain)))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "clause processing failed")
	}
	if ctx.Err() != nil {
		return nil, errors.New(errors.ErrCodeRunTimeout, "analysis exceeded its time budget").WithCause(ctx.Err())
	}
	for _, d := range degraded {
		r.degrade(s.metrics, "entities", 0, d)
	}

	clauses := make([]contract.ClauseAnalysis, 0, len(seg.Clauses))
	risks := make([]contract.RiskEntry, 0, len(seg.Clauses))
	for i, res := range outcomes.Results {
		c := seg.Clauses[i]
		if res == nil || res.Status != common.ItemStatusSuccess {
			cause := error(errors.StageTimeout("clause", c.ClauseNumber))
			if res != nil && res.Status != common.ItemStatusTimeout && res.Error != nil {
				cause = res.Error
			}
			r.degrade(s.metrics, "clause", c.ClauseNumber, cause.Error())
			clauses = append(clauses, analyzer.DegradedAnalysis(c))
			risks = append(risks, analyzer.DegradedRisk(c))
			continue
		}
		clauses = append(clauses, res.Result.analysis)
		risks = append(risks, res.Result.risk)
		if err := res.Result.explainErr; err != nil {
			r.degrade(s.metrics, "explain", c.ClauseNumber, err.Error())
		}
	}
	if err := checkNumbering(clauses, risks); err != nil {
		return nil, err
	}

	score, err := analyzer.Aggregate(risks)
	if err != nil {
		return nil, err
	}
	fairness := analyzer.FairnessFlags(risks)
	suggestions := s.suggestions.Generate(risks)
	summary := s.summary.Compose(analyzer.SummaryInput{
		Overview:     overview,
		BusinessRole: r.record.Meta.BusinessRoleInput,
		Clauses:      clauses,
		Risks:        risks,
		Suggestions:  suggestions,
	})

	result, err := contract.NewResultBuilder().
		ContractOverview(overview).
		Language(lang).
		Entities(entities).
		Clauses(contract.ClauseTable{SegmentationMode: seg.Mode, Clauses: clauses}).
		RiskAnalysis(contract.RiskAnalysis{ClauseRisks: risks, FairnessFlags: fairness, AmbiguityFlags: ambiguity}).
		Suggestions(suggestions).
		ExecutiveSummary(summary).
		RiskScore(score).
		BestPractices(s.cat.BestPracticesFor(domain)).
		Build()
	if err != nil {
		return nil, err
	}

	r.record.RiskFlagsSummary = fairness
	r.record.CompositeScore = score.Composite
	levels := make([]string, len(risks))
	for i, e := range risks {
		levels[i] = e.RiskLevel.String()
	}
	prometheus.RecordAnalysisShape(s.metrics, overview.ContractType, string(seg.Mode), len(clauses), levels, score.Composite)
	return result, nil
}

// checkNumbering sorts both tables by clause number and verifies they cover
// 1..n with matching entries.
func checkNumbering(clauses []contract.ClauseAnalysis, risks []contract.RiskEntry) error {
	if len(clauses) != len(risks) {
		return errors.InvariantViolation("risk table and clause table differ in length")
	}
	sort.SliceStable(clauses, func(i, j int) bool { return clauses[i].ClauseNumber < clauses[j].ClauseNumber })
	sort.SliceStable(risks, func(i, j int) bool { return risks[i].ClauseNumber < risks[j].ClauseNumber })
	for i := range clauses {
		if clauses[i].ClauseNumber != i+1 || risks[i].ClauseNumber != i+1 {
			return errors.InvariantViolation("clause numbers are not contiguous").
				WithDetail(fmt.Sprintf("position=%d clause_number=%d risk_clause_number=%d",
					i+1, clauses[i].ClauseNumber, risks[i].ClauseNumber))
		}
	}
	return nil
}

// clauseStage matches, classifies and risk-rates one clause.
func (s *service) clauseStage(templates []*catalog.ClauseTemplate) common.ProcessFunc[contract.Clause, clauseOutcome] {
	return func(ctx context.Context, c contract.Clause) (clauseOutcome, error) {
		matches := s.matcher.Match(c, templates)
		a, explainErr := s.classifier.Classify(ctx, c, matches)
		return clauseOutcome{
			analysis:   a,
			risk:       s.risk.Assess(a),
			explainErr: explainErr,
		}, nil
	}
}

// translate returns English text for a Hindi contract, or the original text
// when translation is unavailable.
func (s *service) translate(ctx context.Context, r *run, text string) string {
	if s.translator == nil {
		r.degrade(s.metrics, "translate", 0, "text generation is disabled")
		return text
	}
	out, err := s.translator.TranslateToEnglish(ctx, text)
	if err == nil {
		out, err = s.normalizer.Normalize(out)
	}
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.StageTimeout("translate", 0).WithCause(err)
		}
		r.degrade(s.metrics, "translate", 0, err.Error())
		return text
	}
	return out
}

func (s *service) export(ctx context.Context, r *run, resp *AnalyzeResponse) {
	if !r.req.Export || s.reports == nil {
		return
	}
	res, err := s.reports.SaveReport(ctx, resp.RequestID, resp.Result)
	if err != nil {
		r.log.Warn("report export failed", logging.Err(err))
		prometheus.RecordError(s.metrics, "analysis", "export")
		return
	}
	resp.ReportKey = res.ObjectKey
}

func (s *service) publish(ctx context.Context, r *run, resp *AnalyzeResponse) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, resp); err != nil {
		r.log.Warn("analysis events not published", logging.Err(err))
		prometheus.RecordError(s.metrics, "analysis", "publish")
	}
}

//Personal.AI order the ending
