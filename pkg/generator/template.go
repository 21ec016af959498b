package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/besslframework/claude-tune/pkg/patterns"
	"github.com/besslframework/claude-tune/pkg/stats"
)

// GenerateClaudeMd renders a new CLAUDE.md from wizard answers and, when
// available, an analysis of existing conversation logs.
func GenerateClaudeMd(answers Answers, analysis *patterns.Analysis, s *stats.Stats, now time.Time) string {
	var b strings.Builder

	b.WriteString("# CLAUDE.md\n\n")
	b.WriteString("> 이 파일은 claude-tune에 의해 자동 생성되었습니다.\n")
	b.WriteString(fmt.Sprintf("> 생성일: %s\n\n", now.Format("2006-01-02")))
	b.WriteString("---\n\n")

	b.WriteString("## 프로젝트 개요\n\n")
	b.WriteString(fmt.Sprintf("이 프로젝트는 %s가 작업하는 코드베이스입니다.\n\n", answers.Role))
	b.WriteString("### 주요 기술 스택\n")
	for _, lang := range answers.Languages {
		b.WriteString(fmt.Sprintf("- %s\n", lang))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## 말투 규칙\n")
	switch answers.Tone {
	case "반말":
		b.WriteString("- 반말로 대화합니다.\n")
	case "영어":
		b.WriteString("- Respond in English.\n")
	default:
		b.WriteString("- 항상 존댓말을 사용합니다.\n")
	}
	b.WriteString("\n")

	b.WriteString("## 코드 스타일\n")
	switch answers.CodeStyle {
	case "간결함":
		b.WriteString("- 최소한의 코드로 작성\n- 불필요한 주석 제거\n- 자명한 코드 선호\n")
	case "명확함":
		b.WriteString("- 명시적인 타입 선언\n- 복잡한 로직에 주석 추가\n- 함수/변수명은 설명적으로\n")
	default:
		b.WriteString("- 간결함과 명확함의 균형\n- 필요한 곳에만 주석\n- 일관된 네이밍 컨벤션\n")
	}
	b.WriteString("\n")

	if answers.ExtraRules != "" {
		b.WriteString("## 추가 규칙\n")
		b.WriteString(fmt.Sprintf("- %s\n\n", answers.ExtraRules))
	}

	writeLearnedSection(&b, analysis, s)

	b.WriteString("---\n\n")
	b.WriteString("## 커밋 메시지 규칙\n\n")
	b.WriteString("```\n")
	b.WriteString("feat: 새로운 기능\n")
	b.WriteString("fix: 버그 수정\n")
	b.WriteString("docs: 문서 변경\n")
	b.WriteString("style: 코드 포맷팅\n")
	b.WriteString("refactor: 리팩토링\n")
	b.WriteString("test: 테스트\n")
	b.WriteString("chore: 빌드/설정\n")
	b.WriteString("```\n\n")
	b.WriteString("---\n\n")
	b.WriteString("*이 파일은 `claude-tune learn` 명령으로 자동 업데이트됩니다.*\n")

	return b.String()
}

// writeLearnedSection appends rules learned from log analysis, if any
func writeLearnedSection(b *strings.Builder, analysis *patterns.Analysis, s *stats.Stats) {
	if analysis == nil {
		return
	}

	hasTone := false
	for _, p := range analysis.Patterns {
		if p.Category == patterns.CategoryTone {
			hasTone = true
			break
		}
	}

	hasContent := hasTone || len(analysis.RepeatedRequests) > 0 || len(analysis.EditsByExtension) > 0
	if !hasContent {
		return
	}

	b.WriteString("---\n\n")
	b.WriteString("## 학습된 패턴 (대화 로그 분석)\n\n")

	if hasTone {
		b.WriteString("### 말투 교정 이력\n")
		b.WriteString("- 말투 관련 교정이 감지되었습니다. 위 말투 규칙을 준수해주세요.\n\n")
	}

	if len(analysis.RepeatedRequests) > 0 {
		b.WriteString("### 자주 하는 작업\n")
		for _, rc := range topCounts(analysis.RepeatedRequests, 3) {
			b.WriteString(fmt.Sprintf("- %s: %d회\n", rc.name, rc.count))
		}
		b.WriteString("\n")
	}

	if len(analysis.EditsByExtension) > 0 {
		b.WriteString("### 주요 작업 파일\n")
		for _, rc := range topCounts(analysis.EditsByExtension, 3) {
			b.WriteString(fmt.Sprintf("- .%s: %d회 편집\n", rc.name, rc.count))
		}
		b.WriteString("\n")
	}

	if s != nil && len(s.ToolUsage) > 0 {
		b.WriteString("### 주요 사용 도구\n")
		for i, tc := range s.ToolUsage {
			if i >= 5 {
				break
			}
			b.WriteString(fmt.Sprintf("- %s: %d회\n", tc.Name, tc.Count))
		}
		b.WriteString("\n")
	}
}

type namedCount struct {
	name  string
	count int
}

// topCounts returns the n largest entries, count descending with
// name-ascending tie-break for stable output
func topCounts(m map[string]int, n int) []namedCount {
	out := make([]namedCount, 0, len(m))
	for name, count := range m {
		out = append(out, namedCount{name, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
