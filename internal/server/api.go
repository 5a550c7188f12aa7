package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"

	"github.com/gin-gonic/gin"
)

type evaluateRequest struct {
	Base    rate.Rate  `json:"base"`
	Charged rate.Rate  `json:"charged"`
	Margin  *rate.Rate `json:"margin,omitempty"`
}

type seriesRequest struct {
	Code        int        `json:"code"`
	Description string     `json:"description,omitempty"`
	From        string     `json:"from,omitempty"`
	To          string     `json:"to,omitempty"`
	Month       string     `json:"month,omitempty"`
	Charged     rate.Rate  `json:"charged"`
	Margin      *rate.Rate `json:"margin,omitempty"`
}

type marginRequest struct {
	Margin *rate.Rate `json:"margin"`
}

type marginResponse struct {
	Margin rate.Rate `json:"margin"`
	Label  string    `json:"label"`
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []calculator.FieldError `json:"fields,omitempty"`
}

func (s *Server) registerAPI(r *gin.RouterGroup) {
	r.GET("/status", s.handleStatus)
	r.POST("/evaluate", s.handleEvaluate)
	r.POST("/series/evaluate", s.handleSeriesEvaluate)
	r.GET("/catalog", s.handleCatalog)
	r.GET("/catalog/:code", s.handleCatalogEntry)
	r.GET("/margin", s.handleMargin)
	r.PUT("/margin", s.handleSaveMargin)
	r.DELETE("/margin", s.handleResetMargin)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus(c.Request.Context()))
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Margin != nil && req.Margin.IsNegative() {
		writeError(c, http.StatusBadRequest, errorResponse{Error: rate.ErrNegative.Error()})
		return
	}

	out, err := s.calc.Direct(c.Request.Context(), calculator.DirectInput{
		Base:    req.Base,
		Charged: req.Charged,
		Margin:  req.Margin,
	})
	s.recordEvaluation(err)
	if err != nil {
		s.writeEvalError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSeriesEvaluate(c *gin.Context) {
	var req seriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Margin != nil && req.Margin.IsNegative() {
		writeError(c, http.StatusBadRequest, errorResponse{Error: rate.ErrNegative.Error()})
		return
	}

	in, verr := req.input()
	if verr != nil {
		s.writeEvalError(c, verr)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.LookupTimeout)
	defer cancel()

	out, err := s.calc.Series(ctx, in)
	s.recordEvaluation(err)
	if err != nil {
		s.writeEvalError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// input turns the request into a calculator input. Month, when present,
// replaces from and to.
func (r seriesRequest) input() (calculator.SeriesInput, error) {
	in := calculator.SeriesInput{
		Code:        r.Code,
		Description: r.Description,
		Charged:     r.Charged,
		Margin:      r.Margin,
	}

	if strings.TrimSpace(r.Month) != "" {
		p, err := sgs.Month(r.Month)
		if err != nil {
			return in, calculator.Invalid(calculator.FieldFrom, calculator.MsgMonthInvalid)
		}
		in.From, in.To = p.From, p.To
		return in, nil
	}

	var bad []calculator.FieldError
	from, ferr := calculator.ParseFormDate(calculator.FieldFrom, r.From)
	if ferr != nil {
		bad = append(bad, *ferr)
	}
	to, ferr := calculator.ParseFormDate(calculator.FieldTo, r.To)
	if ferr != nil {
		bad = append(bad, *ferr)
	}
	if len(bad) > 0 {
		return in, &calculator.ValidationError{Fields: bad}
	}
	in.From, in.To = from, to
	return in, nil
}

func (s *Server) handleCatalog(c *gin.Context) {
	matches := s.calc.Catalog().Search(c.Query("q"))
	if matches == nil {
		matches = []catalog.Series{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(matches), "series": matches})
}

func (s *Server) handleCatalogEntry(c *gin.Context) {
	in := s.calc.FillDescription(calculator.SeriesInput{Code: atoiOrZero(c.Param("code"))})
	if in.Code == 0 || in.Description == "" {
		writeError(c, http.StatusNotFound, errorResponse{Error: "series not in catalog"})
		return
	}
	c.JSON(http.StatusOK, catalog.Series{Code: in.Code, Description: in.Description})
}

func (s *Server) handleMargin(c *gin.Context) {
	c.JSON(http.StatusOK, marginBody(s.calc.Margin(c.Request.Context())))
}

func (s *Server) handleSaveMargin(c *gin.Context) {
	var req marginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Margin == nil {
		writeError(c, http.StatusBadRequest, errorResponse{Error: "margin is required"})
		return
	}
	if req.Margin.IsNegative() {
		writeError(c, http.StatusBadRequest, errorResponse{Error: rate.ErrNegative.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := s.calc.SaveMargin(ctx, *req.Margin); err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, errorResponse{Error: "could not save margin"})
		return
	}
	c.JSON(http.StatusOK, marginBody(s.calc.Margin(ctx)))
}

func (s *Server) handleResetMargin(c *gin.Context) {
	ctx := c.Request.Context()
	if err := s.calc.ResetMargin(ctx); err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, errorResponse{Error: "could not reset margin"})
		return
	}
	c.JSON(http.StatusOK, marginBody(s.calc.Margin(ctx)))
}

func marginBody(m rate.Rate) marginResponse {
	return marginResponse{Margin: m, Label: rate.Format(m) + "%"}
}

// statusFor maps a submission error onto an HTTP status code.
func statusFor(err error) int {
	var verr *calculator.ValidationError
	var remote *sgs.RemoteError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, sgs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sgs.ErrAmbiguous):
		return http.StatusConflict
	case errors.As(err, &remote), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeEvalError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := errorResponse{Error: calculator.Notice(err)}
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		body.Error = "validation failed"
		body.Fields = verr.Fields
	}
	writeError(c, statusFor(err), body)
}

func writeError(c *gin.Context, status int, body errorResponse) {
	c.AbortWithStatusJSON(status, body)
}
