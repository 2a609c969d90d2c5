package provider

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/voxalign/logger"
)

func echo() RequestResponse[string, string] {
	return Func("echo", func(_ context.Context, in string) (string, error) {
		if in == "" {
			return "", errors.New("empty input")
		}
		return strings.ToUpper(in), nil
	})
}

func TestFunc(t *testing.T) {
	p := echo()
	if p.Name() != "echo" {
		t.Errorf("unexpected name %q", p.Name())
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("expected Func provider to be available")
	}
	out, err := p.Execute(context.Background(), "hi")
	if err != nil || out != "HI" {
		t.Errorf("Execute() = %q, %v", out, err)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(tag string) Middleware[string, string] {
		return func(inner RequestResponse[string, string]) RequestResponse[string, string] {
			return Func(inner.Name(), func(ctx context.Context, in string) (string, error) {
				order = append(order, tag)
				return inner.Execute(ctx, in)
			})
		}
	}

	p := Chain(mark("outer"), mark("inner"))(echo())
	if _, err := p.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("unexpected middleware order %v", order)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "", &buf)
	p := WithLogging[string, string](log)(echo())

	if p.Name() != "echo" || !p.IsAvailable(context.Background()) {
		t.Error("expected logging wrapper to delegate Name and IsAvailable")
	}
	if _, err := p.Execute(context.Background(), "ok"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "provider execute ok") {
		t.Errorf("expected success log, got %q", buf.String())
	}

	buf.Reset()
	if _, err := p.Execute(context.Background(), ""); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), `"error":"empty input"`) {
		t.Errorf("expected failure log, got %q", buf.String())
	}
}

func TestWithLoggingNilLogger(t *testing.T) {
	p := WithLogging[string, string](nil)(echo())
	if _, err := p.Execute(context.Background(), "ok"); err != nil {
		t.Fatal(err)
	}
}

func TestWithTracing(t *testing.T) {
	p := WithTracing[string, string]("tone")(echo())
	out, err := p.Execute(context.Background(), "hi")
	if err != nil || out != "HI" {
		t.Errorf("Execute() = %q, %v", out, err)
	}
	if _, err := p.Execute(context.Background(), ""); err == nil {
		t.Error("expected error to pass through tracing")
	}
}
