package pmerrors

import (
	"fmt"
	"regexp"
)

// ProblemType enumerates the core-relevant slice of the RFC 9457 error
// taxonomy. Auth, SSRF, rate-limit, and browser-liveness variants belong
// to the network-gateway/driver layers this module does not implement;
// they are not represented here.
type ProblemType string

const (
	ProblemValidationError    ProblemType = "validation-error"
	ProblemResourceExhausted  ProblemType = "resource-exhausted"
	ProblemPipelineTimeout    ProblemType = "pipeline-timeout"
	ProblemInternal           ProblemType = "internal-error"
)

const errorBase = "https://pagemap.invalid/errors"

// URI returns the full RFC 9457 "type" URI for t.
func (t ProblemType) URI() string { return errorBase + "/" + string(t) }

type typeMeta struct {
	status int
	title  string
	hint   string
}

var typeMetadata = map[ProblemType]typeMeta{
	ProblemValidationError:   {422, "Validation Error", ""},
	ProblemResourceExhausted: {422, "Resource Limit Exceeded", "Use a narrower selector or a smaller page."},
	ProblemPipelineTimeout:   {504, "Pipeline Timed Out", "Retry with a simpler page or a larger deadline."},
	ProblemInternal:          {500, "Internal Error", ""},
}

const maxDetailLength = 200

// Problem is an RFC 9457 problem-details object.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// NewProblem builds a Problem of kind t, sanitizing detail before storage.
func NewProblem(t ProblemType, detail string) *Problem {
	meta := typeMetadata[t]
	if meta.title == "" {
		meta = typeMetadata[ProblemInternal]
	}
	d := SanitizeDetail(detail)
	if meta.hint != "" {
		d = d + " " + meta.hint
	}
	return &Problem{
		Type:   t.URI(),
		Title:  meta.title,
		Status: meta.status,
		Detail: d,
	}
}

// FromError maps one of this package's typed errors to a Problem.
func FromError(err error) *Problem {
	switch e := err.(type) {
	case *InputTooLargeError:
		return NewProblem(ProblemValidationError, e.Error())
	case *MalformedHTMLError:
		return NewProblem(ProblemValidationError, e.Error())
	case *ResourceExhaustedError:
		return NewProblem(ProblemResourceExhausted, e.Error())
	case *PipelineTimeoutError:
		return NewProblem(ProblemPipelineTimeout, e.Error())
	default:
		return NewProblem(ProblemInternal, err.Error())
	}
}

var secretPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{8,}`), "<redacted>"},
	{regexp.MustCompile(`Bearer\s+\S+`), "Bearer <redacted>"},
	{regexp.MustCompile(`(?i)(?:API_KEY|SECRET|TOKEN|PASSWORD|CREDENTIAL)\s*[=:]\s*\S+`), "<redacted>"},
	{regexp.MustCompile(`Basic\s+[A-Za-z0-9+/=]{8,}`), "Basic <redacted>"},
	{regexp.MustCompile(`://[^@\s]+@`), "://<redacted>@"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`), "<redacted>"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "<redacted>"},
	{regexp.MustCompile(`(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9_]{30,}`), "<redacted>"},
}

var pathPattern = regexp.MustCompile(
	`(/(?:Users|home|tmp|var|etc|opt|root|srv|proc|sys|usr|Library|Applications|private|snap|mnt|media|nix)/[\w./-]+` +
		`|[A-Z]:\\[\w.\\-]+)`)

// SanitizeDetail scrubs secrets and filesystem paths from text, then
// truncates to maxDetailLength characters.
func SanitizeDetail(text string) string {
	for _, p := range secretPatterns {
		text = p.re.ReplaceAllString(text, p.repl)
	}
	text = pathPattern.ReplaceAllString(text, "<path>")
	if len(text) > maxDetailLength {
		text = text[:maxDetailLength]
	}
	return text
}

func (p *Problem) String() string {
	return fmt.Sprintf("%s: %s (%d)", p.Title, p.Detail, p.Status)
}
