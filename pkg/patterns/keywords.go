package patterns

// Detection heuristics are keyword and regex tables kept as data, separate
// from the pipeline, so they can be tuned and unit-tested on their own.

// correctionKeywords flag a user message as correcting the preceding
// assistant reply. Korean and English forms both occur in real transcripts.
var correctionKeywords = []string{
	"아니", "그게 아니라", "잘못", "틀렸", "다시",
	"이렇게 말고", "그렇게 하지 말고", "반말", "존댓말",
	"that's wrong", "not what i", "incorrect",
}

// toneKeywords are the subset of corrections about speech register; they
// collapse into a single tone-preference pattern.
var toneKeywords = []string{"반말", "존댓말"}

// requestCategories maps a request category to the regex that detects it in
// a user message. Matching is case-insensitive.
var requestCategories = []struct {
	Name    string
	Pattern string
}{
	{"file-create", `(만들어|생성|create|write).*파일|파일.*(만들어|생성)|create.*file|new file`},
	{"file-edit", `(수정|변경|edit|modify).*파일|파일.*(수정|변경)|edit.*file`},
	{"review", `리뷰|review|검토|확인`},
	{"explain", `설명|explain|알려|뭐야|무엇|what is|how does`},
	{"test", `테스트|test|실행|run`},
	{"commit", `커밋|commit|푸시|push`},
	{"search", `찾아|검색|search|find|어디|where`},
	{"debug", `에러|error|버그|bug|왜.*안|안.*되|fix|broken`},
}

// snippetLen bounds evidence snippets kept on a pattern
const snippetLen = 200
