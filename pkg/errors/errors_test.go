package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("DenStream.PartialFit", 2, 3, 1)

	// 基本的なエラーメッセージの確認
	want := "denstream: DenStream.PartialFit: dimension mismatch on axis 1 (features). Expected 2, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// DimensionError型にキャスト可能か確認
	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 2 || dimErr.Got != 3 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}
}

func TestNewNotInitializedError(t *testing.T) {
	err := NewNotInitializedError("DenStream", "Predict")

	want := "denstream: DenStream: no points have been absorbed yet. Call PartialFit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notInit *NotInitializedError
	if !As(err, &notInit) {
		t.Error("Error should be castable to *NotInitializedError")
	}
}

func TestNewConfigurationError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		reason  string
		value   interface{}
		wantMsg string
	}{
		{
			name:    "non-positive epsilon",
			param:   "epsilon",
			reason:  "must be > 0",
			value:   0.0,
			wantMsg: "denstream: invalid configuration for parameter 'epsilon': must be > 0 (got: 0)",
		},
		{
			name:    "beta out of range",
			param:   "beta",
			reason:  "must be in (0, 1]",
			value:   1.5,
			wantMsg: "denstream: invalid configuration for parameter 'beta': must be in (0, 1] (got: 1.5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigurationError(tt.param, tt.reason, tt.value)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var cfgErr *ConfigurationError
			if !As(err, &cfgErr) {
				t.Fatal("Error should be castable to *ConfigurationError")
			}
			if cfgErr.ParamName != tt.param {
				t.Errorf("ParamName = %s, want %s", cfgErr.ParamName, tt.param)
			}
		})
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	dimErr := &DimensionError{Op: "Absorb", Expected: 2, Got: 5, Axis: 1}
	logger.Error().EmbedObject(dimErr).Msg("rejected")

	out := buf.String()
	for _, want := range []string{`"operation":"Absorb"`, `"expected":2`, `"got":5`, `"type":"DimensionError"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestWarnRoutesToZerologFunc(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewParameterWarning("beta*mu", 0.2, "pruning period falls back to 1"))

	if len(got) != 1 {
		t.Fatalf("expected one warning, got %d", len(got))
	}
	var pw *ParameterWarning
	if !As(got[0], &pw) {
		t.Fatalf("expected *ParameterWarning, got %T", got[0])
	}
	if pw.Param != "beta*mu" {
		t.Errorf("Param = %s", pw.Param)
	}
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(nil)

	Warn(New("plain warning"))
	if got == nil || got.Error() != "plain warning" {
		t.Errorf("handler not called, got %v", got)
	}
}

func TestWrapfAndIs(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: %d rows", "PartialFit", 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in PartialFit: 0 rows") {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("absorb", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("absorb", []float64{1, math.NaN()}, 7)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if numErr.Iteration != 7 {
		t.Errorf("Iteration = %d, want 7", numErr.Iteration)
	}

	if err := CheckScalar("weight", math.Inf(1), 0); err == nil {
		t.Error("expected error for +Inf")
	}
}

func TestClampAndSafeDivide(t *testing.T) {
	if ClampNonNegative(-1e-17) != 0 {
		t.Error("expected clamp to zero")
	}
	if SafeDivide(1, 0) != 0 {
		t.Error("expected 0 on zero denominator")
	}
	if SafeDivide(6, 3) != 2 {
		t.Error("expected 2")
	}
}
