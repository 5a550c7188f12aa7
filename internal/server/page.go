package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

const isoDate = "2006-01-02"

var pageFuncs = template.FuncMap{
	"seriesLabel": func(s catalog.Series) string {
		return strconv.Itoa(s.Code) + " - " + s.Description
	},
}

type seriesFields struct {
	Code        string
	Description string
	From        string
	To          string
	Charged     string
}

type directFields struct {
	Base    string
	Charged string
}

type outcomeView struct {
	BaseLabel    string
	Base         string
	Charged      string
	Excess       string
	CeilingLabel string
	Ceiling      string
	Headline     string
	Detail       string
	Above        bool
	Series       string
	Period       string
	Observed     string
}

type pageData struct {
	Mode    string
	Margin  string
	Catalog []catalog.Series
	Series  seriesFields
	Direct  directFields
	Errors  map[string]string
	Notice  string
	Outcome *outcomeView
}

func (s *Server) newPage(ctx context.Context, mode string) pageData {
	today := s.cfg.Now().Format(isoDate)
	m := s.calc.Margin(ctx)
	return pageData{
		Mode:    mode,
		Margin:  rate.Format(m) + "%",
		Catalog: s.calc.Catalog().All(),
		Series:  seriesFields{From: today, To: today},
	}
}

func (s *Server) handlePage(c *gin.Context) {
	mode := c.DefaultQuery("mode", string(calculator.ModeSeries))
	if mode != string(calculator.ModeDirect) {
		mode = string(calculator.ModeSeries)
	}
	c.HTML(http.StatusOK, "index.html", s.newPage(c.Request.Context(), mode))
}

// handlePageSubmit evaluates one of the two forms and re-renders the page
// with either the result card, the field errors or a notice.
func (s *Server) handlePageSubmit(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		page pageData
		out  calculator.Outcome
		err  error
	)
	if c.PostForm("mode") == string(calculator.ModeDirect) {
		page = s.newPage(ctx, string(calculator.ModeDirect))
		page.Direct = directFields{Base: c.PostForm("base"), Charged: c.PostForm("charged")}
		out, err = s.submitDirect(ctx, page.Direct)
	} else {
		page = s.newPage(ctx, string(calculator.ModeSeries))
		page.Series = seriesFields{
			Code:        strings.TrimSpace(c.PostForm("code")),
			Description: strings.TrimSpace(c.PostForm("description")),
			From:        c.PostForm("from"),
			To:          c.PostForm("to"),
			Charged:     c.PostForm("charged"),
		}
		out, err = s.submitSeries(ctx, &page.Series)
	}
	s.recordEvaluation(err)

	status := http.StatusOK
	var verr *calculator.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		page.Errors = make(map[string]string, len(verr.Fields))
		for _, fe := range verr.Fields {
			if _, seen := page.Errors[fe.Field]; !seen {
				page.Errors[fe.Field] = fe.Message
			}
		}
	case err != nil:
		_ = c.Error(err)
		status = statusFor(err)
		page.Notice = calculator.Notice(err)
	default:
		page.Outcome = newOutcomeView(out)
	}
	c.HTML(status, "index.html", page)
}

func (s *Server) submitDirect(ctx context.Context, f directFields) (calculator.Outcome, error) {
	return s.calc.Direct(ctx, calculator.DirectInput{
		Base:    formRate(f.Base),
		Charged: formRate(f.Charged),
	})
}

func (s *Server) submitSeries(ctx context.Context, f *seriesFields) (calculator.Outcome, error) {
	var bad []calculator.FieldError
	from, ferr := calculator.ParseFormDate(calculator.FieldFrom, f.From)
	if ferr != nil {
		bad = append(bad, *ferr)
	}
	to, ferr := calculator.ParseFormDate(calculator.FieldTo, f.To)
	if ferr != nil {
		bad = append(bad, *ferr)
	}

	in := s.calc.FillDescription(calculator.SeriesInput{
		Code:        atoiOrZero(f.Code),
		Description: f.Description,
		From:        from,
		To:          to,
		Charged:     formRate(f.Charged),
	})
	f.Description = in.Description

	if err := calculator.ValidateSeries(in); err != nil {
		var verr *calculator.ValidationError
		if errors.As(err, &verr) {
			bad = append(bad, verr.Fields...)
		}
	}
	if len(bad) > 0 {
		return calculator.Outcome{}, &calculator.ValidationError{Fields: bad}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()
	return s.calc.Series(ctx, in)
}

// formRate reads a rate typed in a web form. Blank or unreadable text is
// zero, which validation then rejects with the field message.
func formRate(raw string) rate.Rate {
	r, err := rate.Parse(raw)
	if err != nil {
		return rate.Zero
	}
	return r
}

func newOutcomeView(out calculator.Outcome) *outcomeView {
	res := out.Result
	v := &outcomeView{
		BaseLabel:    out.BaseLabel,
		Base:         rate.Percent(res.Base),
		Charged:      rate.Percent(res.Charged),
		Excess:       res.ExcessLabel(),
		CeilingLabel: res.CeilingLabel(),
		Ceiling:      rate.Percent(res.Ceiling),
		Headline:     out.Verdict.Headline,
		Detail:       out.Verdict.Detail,
		Above:        res.Exceeds,
		Period:       out.Period,
	}
	if out.Series != nil {
		v.Series = strconv.Itoa(out.Series.Code) + " - " + out.Series.Description
	}
	if out.Observation != nil {
		v.Observed = out.Observation.Date.Format(sgs.DateLayout)
	}
	return v
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
