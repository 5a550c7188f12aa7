package calculator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/margin"
	"github.com/coder-muller/calculadora-bacen/internal/prefs"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	obs    sgs.Observation
	err    error
	calls  int
	code   int
	period sgs.Period
}

func (f *fakeLookup) FetchSingle(_ context.Context, code int, p sgs.Period) (sgs.Observation, error) {
	f.calls++
	f.code = code
	f.period = p
	return f.obs, f.err
}

func r(s string) rate.Rate {
	v, err := rate.FromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Series{{Code: 25471, Description: "Aquisição de veículos"}})
	require.NoError(t, err)
	return c
}

func march2024() (time.Time, time.Time) {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
}

func TestDirect_WithinAndAbove(t *testing.T) {
	svc := New(nil, prefs.NewMemory(), testCatalog(t))
	ctx := context.Background()

	out, err := svc.Direct(ctx, DirectInput{Base: r("100"), Charged: r("130")})
	require.NoError(t, err)
	assert.Equal(t, ModeDirect, out.Mode)
	assert.Equal(t, LabelDirectBase, out.BaseLabel)
	assert.False(t, out.Result.Exceeds)
	assert.Equal(t, margin.ClaimUnfounded, out.Verdict.Claim)

	out, err = svc.Direct(ctx, DirectInput{Base: r("5.47"), Charged: r("8")})
	require.NoError(t, err)
	assert.True(t, out.Result.Exceeds)
	assert.Equal(t, "+12,50%", out.Result.ExcessLabel())
	assert.Equal(t, "Revisional procedente", out.Verdict.Headline)
}

func TestDirect_UsesSavedMargin(t *testing.T) {
	kv := prefs.NewMemory()
	svc := New(nil, kv, testCatalog(t))
	ctx := context.Background()

	require.NoError(t, svc.SaveMargin(ctx, rate.FromInt(50)))
	assert.True(t, svc.Margin(ctx).Equal(rate.FromInt(50)))

	out, err := svc.Direct(ctx, DirectInput{Base: r("100"), Charged: r("140")})
	require.NoError(t, err)
	assert.False(t, out.Result.Exceeds)
	assert.Equal(t, "Limite (50%)", out.Result.CeilingLabel())

	require.NoError(t, svc.ResetMargin(ctx))
	assert.True(t, svc.Margin(ctx).Equal(margin.DefaultMargin))
}

func TestDirect_OverrideIsNotPersisted(t *testing.T) {
	kv := prefs.NewMemory()
	svc := New(nil, kv, testCatalog(t), WithMarginOverride(rate.FromInt(10)))
	ctx := context.Background()

	assert.True(t, svc.Margin(ctx).Equal(rate.FromInt(10)))
	_, ok, err := kv.Get(ctx, prefs.MarginKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirect_PerRequestMargin(t *testing.T) {
	kv := prefs.NewMemory()
	svc := New(nil, kv, testCatalog(t))
	ctx := context.Background()
	fifty := rate.FromInt(50)

	out, err := svc.Direct(ctx, DirectInput{Base: r("100"), Charged: r("140"), Margin: &fifty})
	require.NoError(t, err)
	assert.False(t, out.Result.Exceeds)
	assert.True(t, out.Result.Ceiling.Equal(r("150")))
	assert.True(t, svc.Margin(ctx).Equal(margin.DefaultMargin))

	_, ok, err := kv.Get(ctx, prefs.MarginKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirect_Validation(t *testing.T) {
	svc := New(nil, prefs.NewMemory(), testCatalog(t))

	_, err := svc.Direct(context.Background(), DirectInput{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)

	msg, ok := verr.For(FieldBase)
	assert.True(t, ok)
	assert.Equal(t, MsgBaseTooLow, msg)
	msg, ok = verr.For(FieldCharged)
	assert.True(t, ok)
	assert.Equal(t, MsgChargedTooLow, msg)

	_, err = svc.Direct(context.Background(), DirectInput{Base: rate.MinPositive, Charged: rate.MinPositive})
	assert.NoError(t, err)
}

func TestSeries_LooksUpAndEvaluates(t *testing.T) {
	from, to := march2024()
	lk := &fakeLookup{obs: sgs.Observation{Date: from, Value: r("5.47")}}
	svc := New(lk, prefs.NewMemory(), testCatalog(t))

	out, err := svc.Series(context.Background(), SeriesInput{Code: 25471, From: from, To: to, Charged: r("7")})
	require.NoError(t, err)

	assert.Equal(t, 1, lk.calls)
	assert.Equal(t, 25471, lk.code)
	assert.Equal(t, "01/03/2024 a 31/03/2024", lk.period.String())

	assert.Equal(t, ModeSeries, out.Mode)
	assert.Equal(t, LabelSeriesBase, out.BaseLabel)
	require.NotNil(t, out.Series)
	assert.Equal(t, "Aquisição de veículos", out.Series.Description)
	assert.False(t, out.Result.Exceeds)
	assert.Equal(t, "7,11", rate.Format(out.Result.Ceiling))
	assert.Equal(t, "Dentro do limite permitido", out.Verdict.Detail)
}

func TestSeries_ValidationSkipsLookup(t *testing.T) {
	lk := &fakeLookup{}
	svc := New(lk, prefs.NewMemory(), testCatalog(t))
	from, to := march2024()

	tests := []struct {
		name  string
		in    SeriesInput
		field string
		msg   string
	}{
		{"no code", SeriesInput{From: from, To: to, Charged: r("1")}, FieldCode, MsgCodeRequired},
		{"unknown code without description", SeriesInput{Code: 999, From: from, To: to, Charged: r("1")}, FieldDescription, MsgDescriptionRequired},
		{"no start", SeriesInput{Code: 25471, To: to, Charged: r("1")}, FieldFrom, MsgFromRequired},
		{"no end", SeriesInput{Code: 25471, From: from, Charged: r("1")}, FieldTo, MsgToRequired},
		{"inverted", SeriesInput{Code: 25471, From: to, To: from, Charged: r("1")}, FieldTo, MsgInvertedPeriod},
		{"charged too low", SeriesInput{Code: 25471, From: from, To: to}, FieldCharged, MsgChargedTooLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Series(context.Background(), tt.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			msg, ok := verr.For(tt.field)
			assert.True(t, ok)
			assert.Equal(t, tt.msg, msg)
		})
	}
	assert.Zero(t, lk.calls)
}

func TestSeries_UnknownCodeWithDescription(t *testing.T) {
	from, to := march2024()
	lk := &fakeLookup{obs: sgs.Observation{Date: from, Value: r("2")}}
	svc := New(lk, prefs.NewMemory(), testCatalog(t))

	out, err := svc.Series(context.Background(), SeriesInput{
		Code: 999, Description: "Série própria", From: from, To: to, Charged: r("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Série própria", out.Series.Description)
	assert.True(t, out.Result.Exceeds)
}

func TestSeries_LookupErrors(t *testing.T) {
	from, to := march2024()
	in := SeriesInput{Code: 25471, From: from, To: to, Charged: r("1")}

	tests := []struct {
		name   string
		err    error
		notice string
	}{
		{"not found", sgs.ErrNotFound, NoticeNotFound},
		{"ambiguous", fmt.Errorf("%w (2)", sgs.ErrAmbiguous), NoticeAmbiguous},
		{"remote message", &sgs.RemoteError{Status: 400, Message: "Janela de consulta inválida"}, "Janela de consulta inválida"},
		{"remote without message", &sgs.RemoteError{Err: errors.New("dial tcp: refused")}, NoticeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&fakeLookup{err: tt.err}, prefs.NewMemory(), testCatalog(t))
			_, err := svc.Series(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, tt.notice, Notice(err))
		})
	}
}

func TestFillDescription(t *testing.T) {
	svc := New(nil, prefs.NewMemory(), testCatalog(t))

	got := svc.FillDescription(SeriesInput{Code: 25471})
	assert.Equal(t, "Aquisição de veículos", got.Description)

	got = svc.FillDescription(SeriesInput{Code: 0, Description: "velha"})
	assert.Empty(t, got.Description)

	got = svc.FillDescription(SeriesInput{Code: 12345, Description: "mantida"})
	assert.Equal(t, "mantida", got.Description)
}

func TestNotice(t *testing.T) {
	assert.Empty(t, Notice(nil))
	assert.Equal(t, MsgBaseTooLow, Notice(ValidateDirect(DirectInput{Charged: r("1")})))
	assert.Equal(t, NoticeGeneric, Notice(errors.New("boom")))
}

func TestParseFormDate(t *testing.T) {
	d, ferr := ParseFormDate(FieldFrom, " 01/03/2024 ")
	assert.Nil(t, ferr)
	assert.Equal(t, 2024, d.Year())

	d, ferr = ParseFormDate(FieldTo, "")
	assert.Nil(t, ferr)
	assert.True(t, d.IsZero())

	_, ferr = ParseFormDate(FieldFrom, "32/01/2024")
	require.NotNil(t, ferr)
	assert.Equal(t, MsgFromInvalid, ferr.Message)

	_, ferr = ParseFormDate(FieldTo, "ontem")
	require.NotNil(t, ferr)
	assert.Equal(t, MsgToInvalid, ferr.Message)
}
