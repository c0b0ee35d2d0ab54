package tvshell

import (
	"reflect"
	"testing"
	"time"
)

func TestMergeLeftBias(t *testing.T) {
	dst := &PageConfig{
		Name:  "home",
		Style: "existing",
	}
	Merge(dst,
		&PageConfig{Style: "first", URL: "/a"},
		&PageConfig{URL: "/b", Options: Options{Timeout: time.Second}},
	)

	if dst.Style != "existing" {
		t.Errorf("Style = %q, want target value preserved", dst.Style)
	}
	if dst.URL != "/a" {
		t.Errorf("URL = %q, want first source to win", dst.URL)
	}
	if dst.Options.Timeout != time.Second {
		t.Errorf("Options.Timeout = %v, want later source to fill the gap", dst.Options.Timeout)
	}
}

func TestMergeDeep(t *testing.T) {
	dst := &PageConfig{
		Options: Options{ResponseType: ResponseText},
		Events:  map[string]HandlerRefs{"select": Handlers(ByName("a"))},
	}
	Merge(dst, &PageConfig{
		Options: Options{ResponseType: ResponseJSON, Headers: map[string]string{"X-Env": "test"}},
		Events:  map[string]HandlerRefs{"highlight": Handlers(ByName("b"))},
	})

	if dst.Options.ResponseType != ResponseText {
		t.Errorf("ResponseType = %q, want nested field preserved", dst.Options.ResponseType)
	}
	if dst.Options.Headers["X-Env"] != "test" {
		t.Error("nested Headers map not merged")
	}
	if len(dst.Events) != 2 {
		t.Errorf("Events has %d entries, want key-wise merge to 2", len(dst.Events))
	}
}

func TestMergeIdempotent(t *testing.T) {
	src := &PageConfig{
		Name:    "p",
		Style:   "s",
		URL:     "/x",
		Options: Options{ResponseType: ResponseJSON, Headers: map[string]string{"a": "1"}},
	}

	once := Merge(&PageConfig{}, src)
	twice := Merge(&PageConfig{}, src, src)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging twice differs from merging once:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeNil(t *testing.T) {
	if got := Merge(nil, &PageConfig{Name: "x"}); got != nil {
		t.Errorf("Merge(nil, ...) = %v, want nil", got)
	}
	dst := &PageConfig{Name: "x"}
	if got := Merge(dst, nil); got != dst {
		t.Error("Merge should tolerate nil sources and return dst")
	}
}

func TestInvocationConfigFallbacks(t *testing.T) {
	app := New()
	cfg := app.invocationConfig(&PageConfig{Name: "p"})

	if cfg.Options.ResponseType != ResponseJSON {
		t.Errorf("ResponseType = %q, want default %q", cfg.Options.ResponseType, ResponseJSON)
	}
	tmpl, ok := cfg.Template.(func(any) string)
	if !ok {
		t.Fatalf("Template = %T, want default func(any) string", cfg.Template)
	}
	if got := tmpl(nil); got != "" {
		t.Errorf("default template rendered %q, want empty string", got)
	}
}

func TestDataForDefaultsToIdentity(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		payload any
		want    any
	}{
		{"unset passes payload through", nil, 42, 42},
		{"literal wins over payload", map[string]any{"a": 1}, 42, map[string]any{"a": 1}},
		{"transform applied", func(raw any) any { return raw.(int) + 1 }, 41, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &PageConfig{Data: tt.data}
			if got := cfg.dataFor(tt.payload); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dataFor(%v) = %v, want %v", tt.payload, got, tt.want)
			}
		})
	}
}
