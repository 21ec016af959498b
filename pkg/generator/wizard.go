// Package generator builds a fresh CLAUDE.md from an interactive Q&A plus
// an analysis of existing conversation logs.
package generator

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Answers holds the wizard responses used to render the document
type Answers struct {
	Role       string
	Languages  []string
	Tone       string // "존댓말", "반말", "영어"
	CodeStyle  string // "간결함", "명확함", "밸런스"
	ExtraRules string
}

// DefaultAnswers are used when questions are skipped (--yes)
func DefaultAnswers() Answers {
	return Answers{
		Role:      "풀스택 개발자",
		Languages: []string{"TypeScript", "Python"},
		Tone:      "존댓말",
		CodeStyle: "밸런스",
	}
}

var roleChoices = map[string]string{
	"1": "백엔드 개발자",
	"2": "프론트엔드 개발자",
	"3": "풀스택 개발자",
	"4": "데이터/ML 엔지니어",
	"5": "DevOps/인프라 엔지니어",
	"6": "개발자",
}

var toneChoices = map[string]string{
	"1": "존댓말",
	"2": "반말",
	"3": "영어",
}

var styleChoices = map[string]string{
	"1": "간결함",
	"2": "명확함",
	"3": "밸런스",
}

// AskQuestions runs the interactive wizard. Invalid answers re-prompt;
// empty answers take the default.
func AskQuestions(in io.Reader, out io.Writer) (Answers, error) {
	reader := bufio.NewReader(in)
	answers := DefaultAnswers()

	fmt.Fprintln(out, "\n=== Claude Tune 초기 설정 ===")

	fmt.Fprintln(out, "\n1. 주로 어떤 역할로 Claude를 사용하시나요?")
	fmt.Fprintln(out, "   1) 백엔드 개발자")
	fmt.Fprintln(out, "   2) 프론트엔드 개발자")
	fmt.Fprintln(out, "   3) 풀스택 개발자")
	fmt.Fprintln(out, "   4) 데이터/ML 엔지니어")
	fmt.Fprintln(out, "   5) DevOps/인프라")
	fmt.Fprintln(out, "   6) 기타")
	role, err := promptChoice(reader, out, "   선택 (1-6): ", roleChoices, "3")
	if err != nil {
		return answers, err
	}
	answers.Role = role

	fmt.Fprintln(out, "\n2. 주로 사용하는 프로그래밍 언어는? (쉼표로 구분)")
	fmt.Fprintln(out, "   예: TypeScript, Python, Go")
	fmt.Fprint(out, "   언어: ")
	langLine, err := readLine(reader)
	if err != nil {
		return answers, err
	}
	if langLine != "" {
		answers.Languages = nil
		for _, lang := range strings.Split(langLine, ",") {
			if lang = strings.TrimSpace(lang); lang != "" {
				answers.Languages = append(answers.Languages, lang)
			}
		}
	}

	fmt.Fprintln(out, "\n3. Claude의 말투 선호는?")
	fmt.Fprintln(out, "   1) 존댓말 (정중한 어투)")
	fmt.Fprintln(out, "   2) 반말 (편한 어투)")
	fmt.Fprintln(out, "   3) 영어")
	tone, err := promptChoice(reader, out, "   선택 (1-3): ", toneChoices, "1")
	if err != nil {
		return answers, err
	}
	answers.Tone = tone

	fmt.Fprintln(out, "\n4. 선호하는 코드 스타일은?")
	fmt.Fprintln(out, "   1) 간결함 우선 (최소한의 코드)")
	fmt.Fprintln(out, "   2) 명확함 우선 (주석, 타입 명시)")
	fmt.Fprintln(out, "   3) 밸런스")
	style, err := promptChoice(reader, out, "   선택 (1-3): ", styleChoices, "3")
	if err != nil {
		return answers, err
	}
	answers.CodeStyle = style

	fmt.Fprintln(out, "\n5. 추가하고 싶은 규칙이 있나요? (선택, 엔터로 스킵)")
	fmt.Fprintln(out, "   예: 테스트 코드 항상 작성, 한글 주석 사용")
	fmt.Fprint(out, "   추가 규칙: ")
	extra, err := readLine(reader)
	if err != nil {
		return answers, err
	}
	answers.ExtraRules = extra

	return answers, nil
}

// promptChoice reads a numbered selection, re-prompting until a valid
// choice (or empty input, which takes the default)
func promptChoice(reader *bufio.Reader, out io.Writer, prompt string, choices map[string]string, def string) (string, error) {
	for {
		fmt.Fprint(out, prompt)
		input, err := readLine(reader)
		if err != nil {
			return "", err
		}
		if input == "" {
			input = def
		}
		if value, ok := choices[input]; ok {
			return value, nil
		}
		fmt.Fprintln(out, "   잘못된 입력입니다. 다시 선택해주세요.")
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return "", nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
