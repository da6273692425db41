package moderation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nkazarin/noteboard/internal/apperror"
)

const testWarning = "Не ругайтесь!"

var testWords = []string{"редиска", "негодяй"}

func newTestFilter() *Filter {
	return New(testWords, testWarning)
}

func TestCheck_CleanTextPasses(t *testing.T) {
	f := newTestFilter()

	for _, text := range []string{
		"",
		"Отличная новость!",
		"a perfectly ordinary comment",
	} {
		if err := f.Check(text); err != nil {
			t.Errorf("Check(%q) = %v, want nil", text, err)
		}
	}
}

func TestCheck_BannedWordRejected(t *testing.T) {
	f := newTestFilter()

	// The classic shape: the whole banned list embedded in a longer comment.
	text := fmt.Sprintf("%s текст", strings.Join(testWords, " "))
	err := f.Check(text)
	if err == nil {
		t.Fatalf("Check(%q) = nil, want validation error", text)
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Check() error should match ErrValidation, got %v", err)
	}
	if got := apperror.FieldOf(err); got != "text" {
		t.Errorf("FieldOf() = %q, want %q", got, "text")
	}
	if got := apperror.MessageOf(err); got != testWarning {
		t.Errorf("MessageOf() = %q, want the fixed warning %q", got, testWarning)
	}
}

func TestCheck_EachWordRejectedWithTrailingText(t *testing.T) {
	f := newTestFilter()

	for _, w := range testWords {
		text := w + " и что-то ещё"
		if err := f.Check(text); err == nil {
			t.Errorf("Check(%q) = nil, want validation error", text)
		}
	}
}

func TestCheck_CaseInsensitive(t *testing.T) {
	f := newTestFilter()

	if err := f.Check("Ты РЕДИСКА"); err == nil {
		t.Error("Check() should match banned words case-insensitively")
	}
}

func TestCheck_SubstringInsideWord(t *testing.T) {
	f := newTestFilter()

	// Substring matching is intentional: embedding the word inside another
	// token does not evade the filter.
	if err := f.Check("ты_редиска_да"); err == nil {
		t.Error("Check() should match banned words as substrings")
	}
}

func TestNew_DropsEmptyEntries(t *testing.T) {
	f := New([]string{"", "  ", "spam"}, "no")

	if err := f.Check("totally fine"); err != nil {
		t.Errorf("Check() = %v, want nil — empty entries must not match everything", err)
	}
	if err := f.Check("SPAM inside"); err == nil {
		t.Error("Check() should still match the non-empty entry")
	}
}
