// Package calculator runs the two comparison modes on top of the margin
// rule: a base rate typed by the user, or a base rate looked up from an SGS
// series for a period.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/margin"
	"github.com/coder-muller/calculadora-bacen/internal/prefs"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"

	"go.uber.org/zap"
)

// Result card labels.
const (
	LabelSeriesBase = "Taxa BACEN"
	LabelDirectBase = "Taxa Base"
	LabelCharged    = "Taxa Análise"
)

// User-facing notices.
const (
	NoticeNotFound  = "Taxa não encontrada"
	NoticeAmbiguous = "Mais de uma taxa encontrada"
	NoticeGeneric   = "Erro ao calcular a taxa"
)

// Lookup fetches the single observation of a series within a period.
type Lookup interface {
	FetchSingle(ctx context.Context, code int, p sgs.Period) (sgs.Observation, error)
}

// Mode tells which form produced an Outcome.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeSeries Mode = "series"
)

// DirectInput is the "Calcular com a Taxa" form.
type DirectInput struct {
	Base    rate.Rate
	Charged rate.Rate
	Margin  *rate.Rate // nil uses Service.Margin
}

// SeriesInput is the "Calcular com a Série" form. An empty Description is
// filled from the catalog when Code is known.
type SeriesInput struct {
	Code        int
	Description string
	From        time.Time
	To          time.Time
	Charged     rate.Rate
	Margin      *rate.Rate // nil uses Service.Margin
}

// Outcome is one evaluated submission, ready for display.
type Outcome struct {
	Mode        Mode             `json:"mode"`
	BaseLabel   string           `json:"base_label"`
	Result      margin.Result    `json:"result"`
	Verdict     margin.Verdict   `json:"verdict"`
	Series      *catalog.Series  `json:"series,omitempty"`
	Period      string           `json:"period,omitempty"`
	Observation *sgs.Observation `json:"observation,omitempty"`
}

// Service evaluates submissions against the current margin preference.
type Service struct {
	lookup   Lookup
	prefs    prefs.KV
	catalog  *catalog.Catalog
	logger   *zap.Logger
	override *rate.Rate
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMarginOverride pins the margin for this process without persisting it.
func WithMarginOverride(m rate.Rate) Option {
	return func(s *Service) {
		s.override = &m
	}
}

// New creates a Service. A nil catalog means the embedded one.
func New(lookup Lookup, kv prefs.KV, cat *catalog.Catalog, opts ...Option) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	s := &Service{
		lookup:  lookup,
		prefs:   kv,
		catalog: cat,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the series catalog in use.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Margin returns the margin the next evaluation will use.
func (s *Service) Margin(ctx context.Context) rate.Rate {
	if s.override != nil {
		return *s.override
	}
	m, err := prefs.LoadMargin(ctx, s.prefs)
	if err != nil {
		s.logger.Warn("using default margin", zap.Error(err))
	}
	return m
}

func (s *Service) marginFor(ctx context.Context, m *rate.Rate) rate.Rate {
	if m != nil {
		return *m
	}
	return s.Margin(ctx)
}

// SaveMargin persists m as the margin preference.
func (s *Service) SaveMargin(ctx context.Context, m rate.Rate) error {
	if err := prefs.SaveMargin(ctx, s.prefs, m); err != nil {
		return err
	}
	s.logger.Info("margin saved", zap.String("margin", m.String()))
	return nil
}

// ResetMargin forgets the saved margin.
func (s *Service) ResetMargin(ctx context.Context) error {
	return prefs.ResetMargin(ctx, s.prefs)
}

// Direct evaluates a base rate typed by the user.
func (s *Service) Direct(ctx context.Context, in DirectInput) (Outcome, error) {
	if err := ValidateDirect(in); err != nil {
		return Outcome{}, err
	}

	res := margin.Evaluate(in.Base, in.Charged, s.marginFor(ctx, in.Margin))
	s.logger.Debug("direct evaluation",
		zap.String("base", in.Base.String()),
		zap.String("charged", in.Charged.String()),
		zap.Bool("exceeds", res.Exceeds),
	)
	return Outcome{
		Mode:      ModeDirect,
		BaseLabel: LabelDirectBase,
		Result:    res,
		Verdict:   res.Verdict(),
	}, nil
}

// Series looks up the base rate and evaluates the charged rate against it.
func (s *Service) Series(ctx context.Context, in SeriesInput) (Outcome, error) {
	in = s.FillDescription(in)
	if err := ValidateSeries(in); err != nil {
		return Outcome{}, err
	}

	period, err := sgs.NewPeriod(in.From, in.To)
	if err != nil {
		return Outcome{}, fmt.Errorf("building period: %w", err)
	}
	if s.lookup == nil {
		return Outcome{}, errors.New("calculator: no series lookup configured")
	}

	obs, err := s.lookup.FetchSingle(ctx, in.Code, period)
	if err != nil {
		s.logger.Info("series lookup failed",
			zap.Int("code", in.Code),
			zap.String("period", period.String()),
			zap.Error(err),
		)
		return Outcome{}, err
	}

	res := margin.Evaluate(obs.Value, in.Charged, s.marginFor(ctx, in.Margin))
	series := catalog.Series{Code: in.Code, Description: in.Description}
	return Outcome{
		Mode:        ModeSeries,
		BaseLabel:   LabelSeriesBase,
		Result:      res,
		Verdict:     res.Verdict(),
		Series:      &series,
		Period:      period.String(),
		Observation: &obs,
	}, nil
}

// FillDescription sets the description from the catalog when the code is
// known, and clears it when the code is unset.
func (s *Service) FillDescription(in SeriesInput) SeriesInput {
	if in.Code == 0 {
		in.Description = ""
		return in
	}
	if sr, ok := s.catalog.Lookup(in.Code); ok {
		in.Description = sr.Description
	}
	return in
}

// Notice turns a submission error into the short message shown to the user.
func Notice(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if errors.Is(err, sgs.ErrNotFound) {
		return NoticeNotFound
	}
	if errors.Is(err, sgs.ErrAmbiguous) {
		return NoticeAmbiguous
	}
	var remote *sgs.RemoteError
	if errors.As(err, &remote) && strings.TrimSpace(remote.Message) != "" {
		return remote.Message
	}
	return NoticeGeneric
}
