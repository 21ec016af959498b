package generator

import (
	"bytes"
	"strings"
	"testing"
)

func TestAskQuestions_Defaults(t *testing.T) {
	// Empty answers everywhere take the defaults
	in := strings.NewReader("\n\n\n\n\n")
	var out bytes.Buffer

	answers, err := AskQuestions(in, &out)
	if err != nil {
		t.Fatalf("AskQuestions() error = %v", err)
	}

	def := DefaultAnswers()
	if answers.Role != def.Role {
		t.Errorf("expected default role %q, got %q", def.Role, answers.Role)
	}
	if answers.Tone != def.Tone {
		t.Errorf("expected default tone %q, got %q", def.Tone, answers.Tone)
	}
	if answers.CodeStyle != def.CodeStyle {
		t.Errorf("expected default style %q, got %q", def.CodeStyle, answers.CodeStyle)
	}
	if answers.ExtraRules != "" {
		t.Errorf("expected no extra rules, got %q", answers.ExtraRules)
	}
}

func TestAskQuestions_Choices(t *testing.T) {
	in := strings.NewReader("1\nGo, Rust\n2\n1\n테스트 항상 작성\n")
	var out bytes.Buffer

	answers, err := AskQuestions(in, &out)
	if err != nil {
		t.Fatalf("AskQuestions() error = %v", err)
	}

	if answers.Role != "백엔드 개발자" {
		t.Errorf("unexpected role: %q", answers.Role)
	}
	if len(answers.Languages) != 2 || answers.Languages[0] != "Go" || answers.Languages[1] != "Rust" {
		t.Errorf("unexpected languages: %+v", answers.Languages)
	}
	if answers.Tone != "반말" {
		t.Errorf("unexpected tone: %q", answers.Tone)
	}
	if answers.CodeStyle != "간결함" {
		t.Errorf("unexpected style: %q", answers.CodeStyle)
	}
	if answers.ExtraRules != "테스트 항상 작성" {
		t.Errorf("unexpected extra rules: %q", answers.ExtraRules)
	}
}

func TestAskQuestions_InvalidChoiceReprompts(t *testing.T) {
	// "9" is invalid for the role question; the wizard re-prompts and then
	// accepts "2"
	in := strings.NewReader("9\n2\n\n\n\n\n")
	var out bytes.Buffer

	answers, err := AskQuestions(in, &out)
	if err != nil {
		t.Fatalf("AskQuestions() error = %v", err)
	}

	if answers.Role != "프론트엔드 개발자" {
		t.Errorf("expected re-prompted role, got %q", answers.Role)
	}
	if !strings.Contains(out.String(), "잘못된 입력입니다") {
		t.Error("expected re-prompt message in output")
	}
}
