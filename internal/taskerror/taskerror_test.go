package taskerror

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op and message",
			err:  &Error{Kind: KindAuth, Op: "download", Message: "token expired"},
			want: "download: [AUTH] token expired",
		},
		{
			name: "message only",
			err:  &Error{Kind: KindNotFound, Message: "no such file"},
			want: "[NOT_FOUND] no such file",
		},
		{
			name: "wrapped cause only",
			err:  &Error{Kind: KindNetwork, Err: errors.New("connection reset")},
			want: "[NETWORK] connection reset",
		},
		{
			name: "bare kind",
			err:  &Error{Kind: KindUnknown},
			want: "UNKNOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(KindAuth, "list", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindNetwork, "upload", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := Wrap(KindAuth, "list", errors.New("401"))
	if !errors.Is(err, New(KindAuth, "")) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, New(KindNotFound, "")) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "401 is auth",
			err:  &googleapi.Error{Code: 401, Message: "unauthorized"},
			want: KindAuth,
		},
		{
			name: "403 is auth",
			err:  &googleapi.Error{Code: 403, Message: "forbidden"},
			want: KindAuth,
		},
		{
			name: "404 is not found",
			err:  &googleapi.Error{Code: 404, Message: "file not found"},
			want: KindNotFound,
		},
		{
			name: "400 is validation",
			err:  &googleapi.Error{Code: 400, Message: "bad range"},
			want: KindValidation,
		},
		{
			name: "500 is network",
			err:  &googleapi.Error{Code: 500, Message: "backend error"},
			want: KindNetwork,
		},
		{
			name: "url error is network",
			err:  &url.Error{Op: "Get", URL: "https://www.googleapis.com", Err: errors.New("dial tcp: timeout")},
			want: KindNetwork,
		},
		{
			name: "wrapped api error is still classified",
			err:  fmt.Errorf("calling drive: %w", &googleapi.Error{Code: 404}),
			want: KindNotFound,
		},
		{
			name: "plain error is unknown",
			err:  errors.New("something odd"),
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("test", tt.err)
			if KindOf(got) != tt.want {
				t.Errorf("Classify() kind = %v, want %v", KindOf(got), tt.want)
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if err := Classify("list", nil); err != nil {
		t.Errorf("Classify(nil) = %v, want nil", err)
	}
}

func TestClassifyPreservesExistingKind(t *testing.T) {
	orig := New(KindFormat, "cannot export shortcut")
	got := Classify("download", orig)
	if KindOf(got) != KindFormat {
		t.Errorf("Classify should keep the original kind, got %v", KindOf(got))
	}
	if !IsKind(got, KindFormat) {
		t.Error("IsKind should report the preserved kind")
	}
}

func TestClassifySetsOp(t *testing.T) {
	got := Classify("empty", New(KindValidation, "missing folder id"))
	var te *Error
	if !errors.As(got, &te) {
		t.Fatal("Classify should return a *Error")
	}
	if te.Op != "empty" {
		t.Errorf("Op = %q, want %q", te.Op, "empty")
	}
}
